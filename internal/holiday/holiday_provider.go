package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/observability/tracing"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

//go:generate mockgen -source=holiday_provider.go -destination=mock/holiday_provider_mock.go -package=mock
type Provider interface {
	FetchHolidays(ctx context.Context, country string, year int) ([]Record, error)
}

type nagerHoliday struct {
	Date      string   `json:"date"`
	LocalName string   `json:"localName"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Type      string   `json:"type"`
}

// NagerClient reads https://date.nager.at style PublicHolidays endpoints.
type NagerClient struct {
	BaseURL     string
	HTTP        *http.Client
	MaxTries    uint
	MaxInterval time.Duration
	logger      *zap.Logger
}

func NewNagerClient(baseURL string, logger ...*zap.Logger) *NagerClient {
	l := zap.L().Named("holiday.provider")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.provider")
	}
	return &NagerClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
			Transport: otelhttp.NewTransport(&http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			}),
		},
		MaxTries:    4,
		MaxInterval: 5 * time.Second,
		logger:      l,
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("holiday provider returned status %d", e.code)
}

// FetchHolidays retries transport errors, 429 and 5xx with exponential
// backoff. Other 4xx answers are final.
func (c *NagerClient) FetchHolidays(ctx context.Context, country string, year int) ([]Record, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.BaseURL, year, country)

	ctx, span := tracing.Tracer("holiday.provider").Start(ctx, "holiday.FetchHolidays")
	defer span.End()
	span.SetAttributes(attribute.String("holiday.country", country), attribute.Int("holiday.year", year))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = c.MaxInterval
	if b.InitialInterval > b.MaxInterval {
		b.InitialInterval = b.MaxInterval
	}

	records, err := backoff.Retry(ctx, func() ([]Record, error) {
		records, err := c.fetchOnce(ctx, url)
		if err == nil {
			return records, nil
		}

		var se *statusError
		if errors.As(err, &se) && se.code != http.StatusTooManyRequests && se.code < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("holiday fetch failed, retrying",
				zap.String("country", country),
				zap.Int("year", year),
				zap.Duration("backoff", next),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch holidays failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("holiday.records", len(records)))
	return records, nil
}

func (c *NagerClient) fetchOnce(ctx context.Context, url string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return []Record{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var payload []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode holidays: %w", err))
	}

	records := make([]Record, 0, len(payload))
	for _, h := range payload {
		date, err := businessday.ParseDate(h.Date)
		if err != nil {
			c.logger.Warn("skip holiday with bad date", zap.String("date", h.Date))
			continue
		}

		rec := Record{
			Date: date,
			Name: h.Name,
			Type: h.Type,
		}
		if len(h.Types) > 0 {
			rec.Type = strings.Join(h.Types, ",")
		}
		if h.LocalName != "" {
			local := h.LocalName
			rec.LocalName = &local
		}
		records = append(records, rec)
	}
	return records, nil
}
