// Interactive console for the meta exchange: loads a venue snapshot file and
// answers buy/sell requests with the resulting execution plan.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	bookloader "github.com/tilenkocbek/MetaExchange/internal/usecase/book-loader"
	"github.com/tilenkocbek/MetaExchange/internal/usecase/matching"
	"github.com/tilenkocbek/MetaExchange/pkg/config"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.WarnLevel),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	path := cfg.OrderBookFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: console <order book file> (or set ORDER_BOOK_FILE)")
		os.Exit(1)
	}

	ctx := context.Background()
	manager := matching.NewManager(cfg.Pair, log)

	loader := bookloader.NewLoader(manager, nil, log)
	stats, err := loader.ImportFile(ctx, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d exchanges: %d buy orders (%s), %d sell orders (%s)\n\n",
		stats.Exchanges,
		stats.BuyOrders, stats.BuyAmount,
		stats.SellOrders, stats.SellAmount,
	)

	runLoop(ctx, manager, bufio.NewScanner(os.Stdin))
}

func runLoop(ctx context.Context, manager *matching.Manager, in *bufio.Scanner) {
	for {
		side, ok := askSide(in)
		if !ok {
			return
		}

		amount, ok := askAmount(in)
		if !ok {
			return
		}

		result, err := manager.HandleUserOrder(ctx, orderbookv1.UserOrder{
			OrderType: side,
			Amount:    amount,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Printf("%s\n\n", out)
	}
}

func askSide(in *bufio.Scanner) (orderbookv1.Side, bool) {
	for {
		fmt.Print("Would you like to buy or sell? ")
		if !in.Scan() {
			return orderbookv1.SideUnknown, false
		}

		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "buy", "b":
			return orderbookv1.SideBuy, true
		case "sell", "s":
			return orderbookv1.SideSell, true
		case "exit", "quit", "q":
			return orderbookv1.SideUnknown, false
		default:
			fmt.Println("Please answer buy or sell.")
		}
	}
}

func askAmount(in *bufio.Scanner) (decimal.Decimal, bool) {
	for {
		fmt.Print("How much would you like to trade? ")
		if !in.Scan() {
			return decimal.Zero, false
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(in.Text()))
		if err != nil || !amount.IsPositive() {
			fmt.Println("Please enter a positive number.")
			continue
		}
		return amount, true
	}
}
