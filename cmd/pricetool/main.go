package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"

	"kursbot/configs"
	"kursbot/internal/market"
)

// pricetool exercises the market clients from the command line without
// starting the bot.
func main() {
	symbolFlag := flag.String("symbol", "", "symbol to price (BTC, ETH, SOL, USDT, USDUAH, EURUAH)")
	convertFlag := flag.String("convert", "", `conversion query, e.g. "100 USD UAH"`)
	historyFlag := flag.Int("history", 0, "days of USD/UAH history to print")
	tickersFlag := flag.Bool("tickers", false, "print top BTC markets by volume")
	flag.Parse()

	if *symbolFlag == "" && *convertFlag == "" && *historyFlag == 0 && !*tickersFlag {
		fmt.Println("Usage: go run cmd/pricetool/main.go [flags]")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -symbol   Price one symbol (BTC, ETH, SOL, USDT, USDUAH, EURUAH)")
		fmt.Println(`  -convert  Run a conversion query, e.g. "100 USD UAH"`)
		fmt.Println("  -history  Print N days of USD/UAH history")
		fmt.Println("  -tickers  Print top BTC markets by volume")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  go run cmd/pricetool/main.go -symbol=BTC")
		fmt.Println(`  go run cmd/pricetool/main.go -convert="0.5 BTC UAH"`)
		fmt.Println("  go run cmd/pricetool/main.go -history=14")
		os.Exit(1)
	}

	appConfig := configs.AppLoad()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gecko := market.NewCoinGecko(&appConfig.Coingecko, logger)
	nbu := market.NewNBU(&appConfig.NBU, logger)
	source := market.NewSource(gecko, nbu)
	converter := market.NewConverter(gecko, nbu)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *symbolFlag != "" {
		price, err := source.Price(ctx, *symbolFlag)
		if err != nil {
			logger.Fatalf("Price %s: %v", *symbolFlag, err)
		}
		fmt.Printf("%s = %.4f\n", *symbolFlag, price)
	}

	if *convertFlag != "" {
		amount, src, dst, ok := market.ParseConvertQuery(*convertFlag)
		if !ok {
			logger.Fatalf("Cannot parse query %q", *convertFlag)
		}
		result, note, err := converter.Convert(ctx, amount, src, dst)
		if err != nil {
			logger.Fatalf("Convert %s -> %s: %v", src, dst, err)
		}
		fmt.Printf("%v %s = %.6f %s (%s)\n", amount, src, result, dst, note)
	}

	if *historyFlag > 0 {
		points, err := nbu.RateHistory(ctx, "USD", *historyFlag)
		if err != nil {
			logger.Fatalf("Rate history: %v", err)
		}
		for _, p := range points {
			fmt.Printf("%s  %.4f\n", p.Label, p.Rate)
		}
	}

	if *tickersFlag {
		tickers, err := gecko.BTCTickers(ctx)
		if err != nil {
			logger.Fatalf("BTC tickers: %v", err)
		}
		sort.Slice(tickers, func(i, j int) bool { return tickers[i].Volume > tickers[j].Volume })
		for i, tk := range tickers {
			if i == 15 {
				break
			}
			fmt.Printf("%2d. %-20s %s/%s  last=%.2f  volume=%.2f\n",
				i+1, tk.Market.Name, tk.Base, tk.Target, tk.Last, tk.Volume)
		}
	}
}
