// Package orderbook implements the price-indexed storage of resting orders
// for one instrument. It has no matching logic and no locking of its own:
// the matching manager serializes every access, including reads, because the
// cached best-order pointers are only valid under that serialization.
package orderbook

import (
	"github.com/google/btree"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
)

const levelIndexDegree = 16

// Book holds the buy and sell sides of one instrument's meta order book.
// Each side is a balanced tree of FIFO price levels, ordered best-first, plus
// a cached pointer to the best resting order so the hot path never walks the
// tree.
type Book struct {
	bids *btree.BTreeG[*orderbookv1.PriceLevel]
	asks *btree.BTreeG[*orderbookv1.PriceLevel]

	orders map[int64]*orderbookv1.MetaOrder

	bestBid *orderbookv1.MetaOrder
	bestAsk *orderbookv1.MetaOrder
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		// bids compare descending so Min() is the highest price on both trees
		bids: btree.NewG(levelIndexDegree, func(a, b *orderbookv1.PriceLevel) bool {
			return a.Price.GreaterThan(b.Price)
		}),
		asks: btree.NewG(levelIndexDegree, func(a, b *orderbookv1.PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
		orders: make(map[int64]*orderbookv1.MetaOrder),
	}
}

// AddOrder places the order at the tail of its (side, price) level, creating
// the level if absent. It returns false, without mutation, when the order's
// id is already present anywhere in the book or its side is unknown.
func (b *Book) AddOrder(o *orderbookv1.MetaOrder) bool {
	if o == nil {
		return false
	}

	tree := b.sideTree(o.Type)
	if tree == nil {
		return false
	}
	if _, exists := b.orders[o.ID]; exists {
		return false
	}

	probe := &orderbookv1.PriceLevel{Price: o.Price}
	level, ok := tree.Get(probe)
	if !ok {
		level = orderbookv1.NewPriceLevel(o.Price)
		tree.ReplaceOrInsert(level)
	}

	level.Enqueue(o)
	b.orders[o.ID] = o

	// A tie at the best price keeps the cached order: time priority.
	switch o.Type {
	case orderbookv1.SideBuy:
		if b.bestBid == nil || o.Price.GreaterThan(b.bestBid.Price) {
			b.bestBid = o
		}
	case orderbookv1.SideSell:
		if b.bestAsk == nil || o.Price.LessThan(b.bestAsk.Price) {
			b.bestAsk = o
		}
	}

	return true
}

// RemoveOrder removes the order from its (side, price) level. It returns
// false, without mutation, when the level does not exist or holds no order
// with this id. An emptied level is dropped from the index, and a removed
// cached best advances to the head of the next-best level.
func (b *Book) RemoveOrder(o *orderbookv1.MetaOrder) bool {
	if o == nil {
		return false
	}

	tree := b.sideTree(o.Type)
	if tree == nil {
		return false
	}

	probe := &orderbookv1.PriceLevel{Price: o.Price}
	level, ok := tree.Get(probe)
	if !ok {
		return false
	}
	if !level.Remove(o.ID) {
		return false
	}

	delete(b.orders, o.ID)

	if level.Empty() {
		tree.Delete(level)
	}

	switch o.Type {
	case orderbookv1.SideBuy:
		if b.bestBid != nil && b.bestBid.ID == o.ID {
			b.bestBid = headOfBest(tree)
		}
	case orderbookv1.SideSell:
		if b.bestAsk != nil && b.bestAsk.ID == o.ID {
			b.bestAsk = headOfBest(tree)
		}
	}

	return true
}

// BestBuyOrder returns the earliest order at the highest bid price, or nil.
func (b *Book) BestBuyOrder() *orderbookv1.MetaOrder {
	return b.bestBid
}

// BestSellOrder returns the earliest order at the lowest ask price, or nil.
func (b *Book) BestSellOrder() *orderbookv1.MetaOrder {
	return b.bestAsk
}

// BestOpposing returns the best resting order on the side opposite the given
// taker side: buy takers see the best sell and vice versa.
func (b *Book) BestOpposing(side orderbookv1.Side) *orderbookv1.MetaOrder {
	switch side {
	case orderbookv1.SideBuy:
		return b.bestAsk
	case orderbookv1.SideSell:
		return b.bestBid
	default:
		return nil
	}
}

// AllBuyOrders lists every resting buy in price-then-time priority order.
// Diagnostics only, not the hot path.
func (b *Book) AllBuyOrders() []*orderbookv1.MetaOrder {
	return collect(b.bids)
}

// AllSellOrders lists every resting sell in price-then-time priority order.
func (b *Book) AllSellOrders() []*orderbookv1.MetaOrder {
	return collect(b.asks)
}

// Len returns the number of resting orders across both sides.
func (b *Book) Len() int {
	return len(b.orders)
}

func (b *Book) sideTree(side orderbookv1.Side) *btree.BTreeG[*orderbookv1.PriceLevel] {
	switch side {
	case orderbookv1.SideBuy:
		return b.bids
	case orderbookv1.SideSell:
		return b.asks
	default:
		return nil
	}
}

func headOfBest(tree *btree.BTreeG[*orderbookv1.PriceLevel]) *orderbookv1.MetaOrder {
	best, ok := tree.Min()
	if !ok {
		return nil
	}
	return best.Head()
}

func collect(tree *btree.BTreeG[*orderbookv1.PriceLevel]) []*orderbookv1.MetaOrder {
	var orders []*orderbookv1.MetaOrder
	tree.Ascend(func(level *orderbookv1.PriceLevel) bool {
		orders = append(orders, level.Orders()...)
		return true
	})
	return orders
}
