package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *NagerClient {
	c := NewNagerClient(url, zap.NewNop())
	c.MaxInterval = 10 * time.Millisecond
	return c
}

func TestNagerClient_FetchHolidays(t *testing.T) {
	t.Run("parses payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/PublicHolidays/2025/PT", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"date":"2025-12-25","localName":"Natal","name":"Christmas Day","countryCode":"PT","types":["Public"]},
				{"date":"2025-04-25","localName":"","name":"Freedom Day","countryCode":"PT","types":["Public","Bank"]}
			]`))
		}))
		defer srv.Close()

		records, err := newTestClient(srv.URL+"/").FetchHolidays(context.Background(), "PT", 2025)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Christmas Day", records[0].Name)
		require.NotNil(t, records[0].LocalName)
		assert.Equal(t, "Natal", *records[0].LocalName)
		assert.Equal(t, "Public", records[0].Type)
		assert.Nil(t, records[1].LocalName)
		assert.Equal(t, "Public,Bank", records[1].Type)
		assert.Equal(t, 2025, records[1].Date.Year())
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		records, err := newTestClient(srv.URL).FetchHolidays(context.Background(), "PT", 2025)

		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("negative unknown country is not retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).FetchHolidays(context.Background(), "XX", 2025)

		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("negative gives up after max tries", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		c.MaxTries = 3
		_, err := c.FetchHolidays(context.Background(), "PT", 2025)

		assert.Error(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}
