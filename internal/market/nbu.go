package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"kursbot/configs"
)

// NBU is a client for the National Bank of Ukraine statdirectory exchange
// endpoint, which publishes the official daily mid rates against UAH.
type NBU struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

type nbuRow struct {
	Code string   `json:"cc"`
	Rate *float64 `json:"rate"`
}

// NewNBU creates an NBU rate client.
func NewNBU(cfg *configs.NBUConfig, logger *logrus.Logger) *NBU {
	return &NBU{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Rates returns the official rates for the given day keyed by currency code.
// A zero date means today. Rows with a missing code or rate are skipped.
func (n *NBU) Rates(ctx context.Context, date time.Time) (map[string]float64, error) {
	params := url.Values{}
	params.Set("json", "")
	if !date.IsZero() {
		params.Set("date", date.Format("20060102"))
	}

	var rows []nbuRow
	if err := n.getJSON(ctx, params, &rows); err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(rows))
	for _, row := range rows {
		code := strings.ToUpper(strings.TrimSpace(row.Code))
		if code == "" || row.Rate == nil {
			continue
		}
		rates[code] = *row.Rate
	}
	return rates, nil
}

// Rate returns today's official rate for one currency code.
// Returns ErrPriceUnavailable if the NBU has no rate for the code today.
func (n *NBU) Rate(ctx context.Context, code string) (float64, error) {
	rates, err := n.Rates(ctx, time.Time{})
	if err != nil {
		return 0, err
	}
	rate, ok := rates[strings.ToUpper(code)]
	if !ok {
		return 0, fmt.Errorf("nbu has no rate for %s: %w", code, ErrPriceUnavailable)
	}
	return rate, nil
}

// RatePoint is one day of official rate history.
type RatePoint struct {
	Label string
	Rate  float64
}

// RateHistory returns up to days daily rates for a code, oldest first.
// Days the NBU did not publish for are skipped, not errors.
func (n *NBU) RateHistory(ctx context.Context, code string, days int) ([]RatePoint, error) {
	code = strings.ToUpper(code)
	out := make([]RatePoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		day := time.Now().UTC().AddDate(0, 0, -i)
		rates, err := n.Rates(ctx, day)
		if err != nil {
			n.logger.Debugf("NBU history fetch failed for %s: %v", day.Format("2006-01-02"), err)
			continue
		}
		if rate, ok := rates[code]; ok {
			out = append(out, RatePoint{Label: day.Format("01-02"), Rate: rate})
		}
	}
	return out, nil
}

func (n *NBU) getJSON(ctx context.Context, params url.Values, dst any) error {
	reqURL := n.baseURL + "?" + params.Encode()

	backoff := retry.WithMaxRetries(1, retry.NewConstant(retryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("nbu request failed: %w", err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("nbu read body: %w", err))
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			n.logger.Warn("NBU rate limited, retrying once")
			return retry.RetryableError(fmt.Errorf("nbu rate limited"))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("nbu status %d", resp.StatusCode)
		}

		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("nbu unmarshal: %w", err)
		}
		return nil
	})
}
