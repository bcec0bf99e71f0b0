package orderbookv1

import "github.com/shopspring/decimal"

// PriceLevel is a FIFO queue of resting orders sharing one price on one side.
// Orders are linked through their own next/prev pointers, so enqueue and
// unlink are O(1) with no extra allocation per order.
type PriceLevel struct {
	Price decimal.Decimal

	head *MetaOrder
	tail *MetaOrder

	orderCount int
}

// NewPriceLevel creates an empty level for the given price.
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Enqueue appends an order to the tail of the level.
func (p *PriceLevel) Enqueue(o *MetaOrder) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	p.orderCount++
}

// Head returns the earliest-inserted order at this level, or nil when empty.
func (p *PriceLevel) Head() *MetaOrder {
	return p.head
}

// Remove unlinks the order with the given id from the level. It returns
// false, without mutation, when no such order is queued here.
func (p *PriceLevel) Remove(id int64) bool {
	for o := p.head; o != nil; o = o.next {
		if o.ID != id {
			continue
		}

		if o.prev != nil {
			o.prev.next = o.next
		} else {
			p.head = o.next
		}
		if o.next != nil {
			o.next.prev = o.prev
		} else {
			p.tail = o.prev
		}

		o.next = nil
		o.prev = nil
		p.orderCount--
		return true
	}
	return false
}

// Empty checks if the level has no orders.
func (p *PriceLevel) Empty() bool {
	return p.head == nil
}

// OrderCount returns the number of orders queued at this level.
func (p *PriceLevel) OrderCount() int {
	return p.orderCount
}

// TotalAmount sums the remaining amounts of all queued orders. Diagnostics
// only; levels are short enough that a walk beats bookkeeping that would go
// stale on partial fills.
func (p *PriceLevel) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for o := p.head; o != nil; o = o.next {
		total = total.Add(o.RemainingAmount)
	}
	return total
}

// Orders returns the queued orders in FIFO order.
func (p *PriceLevel) Orders() []*MetaOrder {
	orders := make([]*MetaOrder, 0, p.orderCount)
	for o := p.head; o != nil; o = o.next {
		orders = append(orders, o)
	}
	return orders
}
