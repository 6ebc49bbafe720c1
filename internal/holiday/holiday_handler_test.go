package holiday_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/domain"
	"go-leave/internal/holiday"
	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeHolidayService struct {
	ingestFn func(ctx context.Context, country string, records []holiday.Record) (holiday.IngestResult, error)
	queryFn  func(ctx context.Context, q holiday.HolidayQuery) ([]holiday.HolidayResponse, error)
	syncFn   func(ctx context.Context, country string, year int) (holiday.SyncResult, error)
	deleteFn func(ctx context.Context, actor domain.Actor, country, date string) error
}

func (f *fakeHolidayService) Ingest(ctx context.Context, country string, records []holiday.Record) (holiday.IngestResult, error) {
	return f.ingestFn(ctx, country, records)
}

func (f *fakeHolidayService) Query(ctx context.Context, q holiday.HolidayQuery) ([]holiday.HolidayResponse, error) {
	return f.queryFn(ctx, q)
}

func (f *fakeHolidayService) DateSet(ctx context.Context, country string, from, to time.Time) (businessday.DateSet, error) {
	return businessday.NewDateSet(), nil
}

func (f *fakeHolidayService) Sync(ctx context.Context, country string, year int) (holiday.SyncResult, error) {
	return f.syncFn(ctx, country, year)
}

func (f *fakeHolidayService) SyncAll(ctx context.Context, years []int) ([]holiday.SyncResult, error) {
	return nil, nil
}

func (f *fakeHolidayService) Delete(ctx context.Context, actor domain.Actor, country, date string) error {
	return f.deleteFn(ctx, actor, country, date)
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Warnings []string        `json:"warnings"`
	Error    *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(svc holiday.Service, actor *domain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if actor != nil {
			c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), *actor))
		}
		c.Next()
	})
	holiday.RegisterRoutes(api, holiday.NewHandler(svc), func(c *gin.Context) { c.Next() })
	return r
}

func serve(r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHolidayHandler_Query(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		svc := &fakeHolidayService{
			queryFn: func(ctx context.Context, q holiday.HolidayQuery) ([]holiday.HolidayResponse, error) {
				assert.Equal(t, "PT", q.Country)
				assert.Equal(t, []int{2025, 2026}, q.Years)
				assert.NotNil(t, q.From)
				assert.Nil(t, q.To)
				return []holiday.HolidayResponse{{Country: "PT", Date: "2025-12-25", Name: "Christmas Day"}}, nil
			},
		}

		w, env := serve(newRouter(svc, nil), http.MethodGet, "/api/v1/holidays?country=PT&year=2025,2026&from=2025-01-01", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Contains(t, string(env.Data), "Christmas Day")
	})

	t.Run("negative bad date", func(t *testing.T) {
		w, env := serve(newRouter(&fakeHolidayService{}, nil), http.MethodGet, "/api/v1/holidays?from=01-01-2025", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestHolidayHandler_Ingest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeHolidayService{
			ingestFn: func(ctx context.Context, country string, records []holiday.Record) (holiday.IngestResult, error) {
				assert.Equal(t, "PT", country)
				assert.Len(t, records, 1)
				assert.Equal(t, 25, records[0].Date.Day())
				return holiday.IngestResult{Country: "PT", Ingested: 1}, nil
			},
		}
		body := map[string]any{"holidays": []map[string]string{{"date": "2025-12-25", "name": "Christmas Day"}}}

		w, env := serve(newRouter(svc, nil), http.MethodPost, "/api/v1/holidays/PT", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("negative empty batch", func(t *testing.T) {
		w, env := serve(newRouter(&fakeHolidayService{}, nil), http.MethodPost, "/api/v1/holidays/PT", map[string]any{"holidays": []any{}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})
}

func TestHolidayHandler_Sync(t *testing.T) {
	svc := &fakeHolidayService{
		syncFn: func(ctx context.Context, country string, year int) (holiday.SyncResult, error) {
			assert.Equal(t, 2026, year)
			return holiday.SyncResult{
				Country: "PT",
				Year:    year,
				Skipped: true,
				Warning: holidayerrors.ErrUpstreamUnavailable.Message,
			}, nil
		},
	}

	w, env := serve(newRouter(svc, nil), http.MethodPost, "/api/v1/holidays/PT/sync?year=2026", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, []string{holidayerrors.ErrUpstreamUnavailable.Message}, env.Warnings)
}

func TestHolidayHandler_Delete(t *testing.T) {
	admin := domain.Actor{ID: uuid.New(), IsAdmin: true}

	t.Run("success", func(t *testing.T) {
		svc := &fakeHolidayService{
			deleteFn: func(ctx context.Context, actor domain.Actor, country, date string) error {
				assert.Equal(t, admin.ID, actor.ID)
				assert.Equal(t, "2025-12-25", date)
				return nil
			},
		}

		w, _ := serve(newRouter(svc, &admin), http.MethodDelete, "/api/v1/holidays/PT/2025-12-25", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeHolidayService{
			deleteFn: func(ctx context.Context, actor domain.Actor, country, date string) error {
				return holidayerrors.ErrHolidayNotFound
			},
		}

		w, env := serve(newRouter(svc, &admin), http.MethodDelete, "/api/v1/holidays/PT/2025-12-26", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("negative anonymous", func(t *testing.T) {
		w, _ := serve(newRouter(&fakeHolidayService{}, nil), http.MethodDelete, "/api/v1/holidays/PT/2025-12-25", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
