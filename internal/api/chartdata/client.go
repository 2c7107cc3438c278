package chartdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stockpeek/chartsync/internal/model"
	httpClient "github.com/stockpeek/chartsync/internal/platform/http"
)

// Client talks to the host application's charting and indicator endpoints.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new chart data client
type ClientOptions struct {
	BaseURL         string
	AuthToken       string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new chart data API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	return &Client{
		baseURL:    options.BaseURL,
		authToken:  options.AuthToken,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "chartdata_client").Logger(),
	}
}

// GetCandlesticks fetches the price history for a symbol and period. An empty
// or missing data array is the empty-history state, not an error.
func (c *Client) GetCandlesticks(ctx context.Context, symbol string, period model.Period) (model.PriceHistory, error) {
	endpoint := fmt.Sprintf(
		"%s/charting/candlesticks/%s?period=%s",
		c.baseURL,
		url.PathEscape(symbol),
		period,
	)

	c.logger.Debug().Str("symbol", symbol).Str("period", period.String()).Msg("Fetching candlesticks")

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var data model.CandlestickResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing candlestick JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	history := model.NormalizeHistory(data.Data)
	if data.Count != 0 && data.Count != len(data.Data) {
		c.logger.Warn().Int("count", data.Count).Int("len", len(data.Data)).Msg("Candle count mismatch in response")
	}

	c.logger.Debug().Int("count", len(history)).Msg("Fetched candlesticks")
	return history, nil
}

// GetIndicator fetches one indicator series for a symbol. The server infers
// the date range; values align positionally with the most recent history
// fetched for the symbol. Null entries are preserved as absent values.
func (c *Client) GetIndicator(ctx context.Context, kind model.IndicatorKind, symbol string) (model.IndicatorSeries, error) {
	endpoint := fmt.Sprintf(
		"%s/indicators/%s/%s",
		c.baseURL,
		kind.Slug(),
		url.PathEscape(symbol),
	)

	c.logger.Debug().Str("symbol", symbol).Str("kind", kind.String()).Msg("Fetching indicator")

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return model.IndicatorSeries{}, err
	}

	var data model.IndicatorResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing indicator JSON")
		return model.IndicatorSeries{}, fmt.Errorf("parsing JSON: %w", err)
	}

	c.logger.Debug().Int("count", len(data.Data)).Msg("Fetched indicator values")
	return model.IndicatorSeries{Kind: kind, Values: data.Data}, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
