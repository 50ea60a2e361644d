package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fasttrade/internal/config"
	"fasttrade/internal/gather"
	"fasttrade/internal/store"
	"fasttrade/internal/util"
	"fasttrade/pkg/fasttrade"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fasttrade <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  run        Run a backtest of a strategy over archived candles\n")
		fmt.Fprintf(os.Stderr, "  validate   Check a strategy file without running it\n")
		fmt.Fprintf(os.Stderr, "  fetch      Download candles into the local archive\n")
		fmt.Fprintf(os.Stderr, "  symbols    List symbols in the local archive\n")
		fmt.Fprintf(os.Stderr, "  runs       List saved backtest runs\n")
		fmt.Fprintf(os.Stderr, "  version    Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch os.Args[1] {
	case "version":
		fmt.Printf("fasttrade %s\n", version)

	case "run":
		cmdRun(ctx, cfg, os.Args[2:])

	case "validate":
		cmdValidate(os.Args[2:])

	case "fetch":
		cmdFetch(ctx, cfg, os.Args[2:])

	case "symbols":
		cmdSymbols(ctx, cfg, os.Args[2:])

	case "runs":
		cmdRuns(ctx, cfg, os.Args[2:])

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfgPath := os.Getenv("FASTTRADE_CONFIG")
	if cfgPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

func cmdRun(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	strategyPath := fs.String("strategy", "", "path to strategy YAML/JSON file (required)")
	symbol := fs.String("symbol", "", "symbol to backtest (required)")
	exchange := fs.String("exchange", "us", "exchange the candles were archived under")
	start := fs.String("start", "", "start date YYYY-MM-DD (default: strategy start_date or archive start)")
	end := fs.String("end", "", "end date YYYY-MM-DD (default: today)")
	jsonOut := fs.Bool("json", false, "print full result as JSON instead of a summary")
	save := fs.Bool("save", false, "save the run to the run database")
	fs.Parse(args)

	if *strategyPath == "" || *symbol == "" {
		fs.Usage()
		os.Exit(1)
	}

	spec, err := fasttrade.LoadStrategy(*strategyPath)
	if err != nil {
		log.Fatalf("loading strategy: %v", err)
	}

	interval := spec.Freq
	if interval == "" {
		interval = "1m"
	}
	from, to := dateRange(*start, *end)

	cstore := store.NewParquetStore(cfg.Storage.DataDir)
	candles, err := cstore.LoadCandles(ctx, *exchange, *symbol, interval, from, to)
	if err != nil {
		log.Fatalf("loading candles: %v", err)
	}
	if len(candles) == 0 {
		log.Fatalf("no candles archived for %s/%s/%s; run fetch first", *exchange, *symbol, interval)
	}

	result, err := fasttrade.Run(spec, candles)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encoding result: %v", err)
		}
	} else {
		printSummary(spec.Name, *symbol, result)
	}

	if *save {
		rstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening run database: %v", err)
		}
		defer rstore.Close()

		id, err := rstore.SaveRun(ctx, &store.Run{
			Strategy: spec.Name,
			Symbol:   *symbol,
			Summary:  result.Summary,
			Trades:   result.Trades,
		})
		if err != nil {
			log.Fatalf("saving run: %v", err)
		}
		fmt.Printf("saved run %d\n", id)
	}
}

func printSummary(strategy, symbol string, r *fasttrade.Result) {
	s := r.Summary
	fmt.Printf("%s / %s\n", strategy, symbol)
	fmt.Printf("  balance:        %.2f -> %.2f (%+.2f%%)\n", s.BaseBalance, s.FinalBalance, s.ReturnPct*100)
	fmt.Printf("  trades:         %d (%d wins, %d losses, win rate %.1f%%)\n",
		s.NumTrades, s.NumWins, s.NumLosses, s.WinRate*100)
	fmt.Printf("  profit factor:  %s\n", formatRatio(s.ProfitFactor))
	fmt.Printf("  sharpe:         %.3f  sortino: %.3f\n", s.SharpeRatio, s.SortinoRatio)
	fmt.Printf("  max drawdown:   %.2f%% (longest %s)\n", s.MaxDrawdownPct*100, s.MaxDrawdownDuration)
	fmt.Printf("  time in market: %.1f%%\n", s.TimeInMarket*100)
	if r.Open != nil {
		fmt.Printf("  open position:  entered %s at %.4f\n",
			r.Open.EntryTime.Format(time.RFC3339), r.Open.EntryPrice)
	}
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.3f", v)
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	strategyPath := fs.String("strategy", "", "path to strategy YAML/JSON file (required)")
	fs.Parse(args)

	if *strategyPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	spec, err := fasttrade.LoadStrategy(*strategyPath)
	if err != nil {
		log.Fatalf("loading strategy: %v", err)
	}

	errs := fasttrade.Validate(spec)
	if len(errs) == 0 {
		fmt.Println("ok")
		return
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "error: %v\n", e)
	}
	os.Exit(1)
}

// ---------------------------------------------------------------------------
// fetch
// ---------------------------------------------------------------------------

func cmdFetch(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol to fetch, e.g. BTC/USD (required)")
	exchange := fs.String("exchange", "us", "crypto feed to fetch from")
	interval := fs.String("interval", "1m", "candle interval (1m 5m 15m 30m 1h 2h 4h 6h 12h 1d 3d 1w 1M)")
	start := fs.String("start", "", "start date YYYY-MM-DD (required)")
	end := fs.String("end", "", "end date YYYY-MM-DD (default: now)")
	fs.Parse(args)

	if *symbol == "" || *start == "" {
		fs.Usage()
		os.Exit(1)
	}
	if !gather.SupportedInterval(*interval) {
		log.Fatalf("unsupported interval %q", *interval)
	}

	from, to := dateRange(*start, *end)

	fetcher := gather.NewAlpacaFetcher(
		cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL,
		cfg.Fetch.RateLimitPerMin, cfg.Fetch.MaxAttempts, cfg.Fetch.PageLimit,
		func(st gather.Status) {
			fmt.Printf("\r%s: %5.1f%% (%d/%d calls, %s elapsed)",
				st.Symbol, st.PercComplete, st.CallCount, st.TotalCalls,
				st.Elapsed.Round(time.Second))
		})

	candles, err := fetcher.Fetch(ctx, *symbol, *exchange, from, to, *interval)
	fmt.Println()
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	cstore := store.NewParquetStore(cfg.Storage.DataDir)
	if err := cstore.SaveCandles(ctx, *exchange, *symbol, *interval, candles); err != nil {
		log.Fatalf("saving candles: %v", err)
	}
	fmt.Printf("archived %d candles for %s %s\n", len(candles), *symbol, *interval)
}

// ---------------------------------------------------------------------------
// symbols / runs
// ---------------------------------------------------------------------------

func cmdSymbols(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("symbols", flag.ExitOnError)
	exchange := fs.String("exchange", "us", "exchange to list")
	fs.Parse(args)

	cstore := store.NewParquetStore(cfg.Storage.DataDir)
	symbols, err := cstore.ListSymbols(ctx, *exchange)
	if err != nil {
		log.Fatalf("listing symbols: %v", err)
	}
	for _, s := range symbols {
		fmt.Println(s)
	}
}

func cmdRuns(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum number of runs to list")
	fs.Parse(args)

	rstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening run database: %v", err)
	}
	defer rstore.Close()

	runs, err := rstore.ListRuns(ctx, *limit)
	if err != nil {
		log.Fatalf("listing runs: %v", err)
	}
	for _, r := range runs {
		fmt.Printf("%6d  %-24s %-10s %s  return %+.2f%%  trades %d\n",
			r.ID, r.Strategy, r.Symbol, r.CreatedAt.Format("2006-01-02 15:04"),
			r.Summary.ReturnPct*100, r.Summary.NumTrades)
	}
}

// dateRange parses optional YYYY-MM-DD bounds. An empty start falls back to
// the Unix epoch, an empty end to now.
func dateRange(start, end string) (time.Time, time.Time) {
	from := time.Unix(0, 0).UTC()
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			log.Fatalf("bad start date %q: %v", start, err)
		}
		from = t.UTC()
	}
	to := time.Now().UTC()
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			log.Fatalf("bad end date %q: %v", end, err)
		}
		// Inclusive through the end of the day.
		to = t.UTC().Add(24*time.Hour - time.Millisecond)
	}
	return from, to
}
