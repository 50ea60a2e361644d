package gather

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"fasttrade/internal/domain"
	"fasttrade/internal/util"
)

// Compile-time interface check.
var _ Fetcher = (*AlpacaFetcher)(nil)

// AlpacaFetcher fetches historical crypto candles from the Alpaca
// market-data API. Requests are windowed so each API call asks for at most
// pageLimit candles, paced by a token-bucket rate limiter and retried with
// backoff on transient failures.
type AlpacaFetcher struct {
	client      *marketdata.Client
	limiter     *util.RateLimiter
	maxAttempts int
	pageLimit   int
	status      StatusFunc
	log         *slog.Logger
}

// NewAlpacaFetcher creates an AlpacaFetcher with the given credentials and
// pacing parameters. status may be nil.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL string, ratePerMin, maxAttempts, pageLimit int, status StatusFunc) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if ratePerMin <= 0 {
		ratePerMin = 200
	}
	if pageLimit <= 0 {
		pageLimit = 1000
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &AlpacaFetcher{
		client:      marketdata.NewClient(opts),
		limiter:     util.NewRateLimiter(ratePerMin),
		maxAttempts: maxAttempts,
		pageLimit:   pageLimit,
		status:      status,
		log:         slog.Default().With("fetcher", "alpaca"),
	}
}

// Fetch downloads candles for the symbol in time windows of pageLimit
// candles each. The exchange argument selects the Alpaca crypto feed
// (default "us"). The returned series is deduplicated and sorted.
func (f *AlpacaFetcher) Fetch(ctx context.Context, symbol, exchange string, start, end time.Time, interval string) ([]domain.Candle, error) {
	step, ok := Intervals[interval]
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	tf, err := timeFrame(interval)
	if err != nil {
		return nil, err
	}
	if now := time.Now().UTC(); end.After(now) {
		end = now.Truncate(time.Minute)
	}

	window := step * time.Duration(f.pageLimit)
	totalCalls := int((end.Sub(start) + window - 1) / window)
	began := time.Now()

	byTime := make(map[int64]domain.Candle)
	calls := 0
	for cur := start; cur.Before(end); cur = cur.Add(window) {
		next := cur.Add(window)
		if next.After(end) {
			next = end
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var bars []marketdata.CryptoBar
		err := util.Retry(ctx, f.maxAttempts, time.Second, func() error {
			var reqErr error
			bars, reqErr = f.client.GetCryptoBars(symbol, marketdata.GetCryptoBarsRequest{
				TimeFrame:  tf,
				Start:      cur,
				End:        next,
				CryptoFeed: cryptoFeed(exchange),
			})
			return reqErr
		})
		if err != nil {
			return nil, fmt.Errorf("fetching %s %s [%s, %s): %w",
				symbol, interval, cur.Format(time.RFC3339), next.Format(time.RFC3339), err)
		}

		for _, b := range bars {
			ts := b.Timestamp.UTC()
			byTime[ts.UnixMilli()] = domain.Candle{
				Timestamp: ts,
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			}
		}

		calls++
		f.log.Debug("fetched window", "symbol", symbol, "from", cur, "to", next, "bars", len(bars))
		if f.status != nil {
			f.status(Status{
				Symbol:       symbol,
				PercComplete: 100 * float64(calls) / float64(max(totalCalls, 1)),
				CallCount:    calls,
				TotalCalls:   totalCalls,
				Elapsed:      time.Since(began),
			})
		}
	}

	candles := make([]domain.Candle, 0, len(byTime))
	for _, c := range byTime {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

// timeFrame converts an interval string like "15m" or "1d" into the SDK's
// TimeFrame.
func timeFrame(interval string) (marketdata.TimeFrame, error) {
	n := 0
	i := 0
	for i < len(interval) && interval[i] >= '0' && interval[i] <= '9' {
		n = n*10 + int(interval[i]-'0')
		i++
	}
	if n == 0 || i == len(interval) {
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
	}
	switch interval[i:] {
	case "m":
		return marketdata.NewTimeFrame(n, marketdata.Min), nil
	case "h":
		return marketdata.NewTimeFrame(n, marketdata.Hour), nil
	case "d":
		return marketdata.NewTimeFrame(n, marketdata.Day), nil
	case "w":
		return marketdata.NewTimeFrame(n, marketdata.Week), nil
	case "M":
		return marketdata.NewTimeFrame(n, marketdata.Month), nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
}

func cryptoFeed(exchange string) marketdata.CryptoFeed {
	switch strings.ToLower(exchange) {
	case "", "us", "alpaca":
		return marketdata.US
	default:
		return marketdata.CryptoFeed(exchange)
	}
}
