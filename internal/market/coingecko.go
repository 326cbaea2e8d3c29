package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"kursbot/configs"
)

const (
	requestTimeout = 18 * time.Second
	retryBackoff   = 2 * time.Second
)

// CoinGecko is a client for the CoinGecko v3 API. It rate-limits itself
// against the public endpoint and retries a transient failure once.
type CoinGecko struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// MarketRow is one asset row from /coins/markets.
type MarketRow struct {
	ID           string   `json:"id"`
	CurrentPrice *float64 `json:"current_price"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
}

// Ticker is one exchange quote from /coins/{id}/tickers.
type Ticker struct {
	Base   string  `json:"base"`
	Target string  `json:"target"`
	Last   float64 `json:"last"`
	Volume float64 `json:"volume"`
	Market struct {
		Name string `json:"name"`
	} `json:"market"`
}

type tickerResponse struct {
	Tickers []Ticker `json:"tickers"`
}

// NewCoinGecko creates a CoinGecko client.
func NewCoinGecko(cfg *configs.CoingeckoConfig, logger *logrus.Logger) *CoinGecko {
	return &CoinGecko{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 2),
		logger:     logger,
	}
}

// SimplePrice returns the current price of one asset in the given fiat
// using /simple/price. Returns ErrPriceUnavailable if the upstream does not
// carry a numeric price for the id.
func (cg *CoinGecko) SimplePrice(ctx context.Context, coinID, vs string) (float64, error) {
	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", vs)

	var data map[string]map[string]float64
	if err := cg.getJSON(ctx, "/simple/price", params, &data); err != nil {
		return 0, err
	}

	price, ok := data[coinID][vs]
	if !ok {
		return 0, fmt.Errorf("coingecko has no %s price for %s: %w", vs, coinID, ErrPriceUnavailable)
	}
	return price, nil
}

// MarketsSnapshot returns price and 24h change rows for the given asset ids
// using /coins/markets, keyed by id. Assets missing upstream are absent from
// the result rather than an error.
func (cg *CoinGecko) MarketsSnapshot(ctx context.Context, coinIDs []string) (map[string]MarketRow, error) {
	ids := ""
	for i, id := range coinIDs {
		if i > 0 {
			ids += ","
		}
		ids += id
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", ids)
	params.Set("price_change_percentage", "24h")

	var rows []MarketRow
	if err := cg.getJSON(ctx, "/coins/markets", params, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]MarketRow, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		out[row.ID] = row
	}
	return out, nil
}

// BTCTickers returns BTC quotes across exchanges from /coins/bitcoin/tickers.
func (cg *CoinGecko) BTCTickers(ctx context.Context) ([]Ticker, error) {
	params := url.Values{}
	params.Set("include_exchange_logo", "false")

	var data tickerResponse
	if err := cg.getJSON(ctx, "/coins/bitcoin/tickers", params, &data); err != nil {
		return nil, err
	}
	return data.Tickers, nil
}

// getJSON performs a rate-limited GET against the API and decodes the body.
// A timeout or 429 is retried once after a fixed backoff, then surfaced.
func (cg *CoinGecko) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	if err := cg.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := cg.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(retryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := cg.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("coingecko request failed: %w", err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("coingecko read body: %w", err))
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			cg.logger.Warnf("CoinGecko rate limited on %s, retrying once", path)
			return retry.RetryableError(fmt.Errorf("coingecko rate limited"))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("coingecko status %d on %s", resp.StatusCode, path)
		}

		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("coingecko unmarshal %s: %w", path, err)
		}
		return nil
	})
}
