package holiday

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/domain"
	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/observability/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CountryLister yields the countries that have at least one user.
type CountryLister interface {
	ListCountries(ctx context.Context) ([]string, error)
}

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Ingest(ctx context.Context, country string, records []Record) (IngestResult, error)
	Query(ctx context.Context, q HolidayQuery) ([]HolidayResponse, error)
	// DateSet returns the holidays of country inside [from, to] as a set for
	// business-day counting. An empty country yields an empty set.
	DateSet(ctx context.Context, country string, from, to time.Time) (businessday.DateSet, error)
	Sync(ctx context.Context, country string, year int) (SyncResult, error)
	SyncAll(ctx context.Context, years []int) ([]SyncResult, error)
	Delete(ctx context.Context, actor domain.Actor, country, date string) error
}

type Option func(*service)

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("holiday.service")
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo      Repository
	provider  Provider
	countries CountryLister
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, provider Provider, countries CountryLister, opts ...Option) Service {
	s := &service{
		repo:      repo,
		provider:  provider,
		countries: countries,
		logger:    zap.L().Named("holiday.service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// NormalizeCountry upper-cases and validates an ISO 3166-1 alpha-2 code.
func NormalizeCountry(country string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	if !countryPattern.MatchString(code) {
		return "", holidayerrors.ErrInvalidCountry
	}
	return code, nil
}

func validYear(year int) bool {
	return year >= 1900 && year <= 3000
}

func (s *service) Ingest(ctx context.Context, country string, records []Record) (IngestResult, error) {
	code, err := NormalizeCountry(country)
	if err != nil {
		return IngestResult{}, err
	}

	s.logger.Debug("ingest holidays", zap.String("country", code), zap.Int("records", len(records)))

	now := s.now().UTC()
	byDate := make(map[string]int, len(records))
	rows := make([]PublicHoliday, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if rec.Date.IsZero() || name == "" {
			return IngestResult{}, holidayerrors.ErrInvalidRecord
		}

		date := businessday.DateOnly(rec.Date)
		row := PublicHoliday{
			ID:        uuid.New(),
			Country:   code,
			Date:      date,
			Name:      name,
			LocalName: rec.LocalName,
			Type:      strings.TrimSpace(rec.Type),
			Year:      date.Year(),
			CreatedAt: now,
			UpdatedAt: now,
		}

		// one statement cannot touch the same conflict key twice; last one wins
		key := date.Format(businessday.DateLayout)
		if i, ok := byDate[key]; ok {
			row.ID = rows[i].ID
			rows[i] = row
			continue
		}
		byDate[key] = len(rows)
		rows = append(rows, row)
	}

	if err := s.repo.UpsertBatch(ctx, rows); err != nil {
		s.logger.Error("upsert holidays failed", zap.String("country", code), zap.Error(err))
		return IngestResult{}, err
	}

	metrics.ObserveHolidaysIngested(code, len(rows))
	s.logger.Info("holidays ingested", zap.String("country", code), zap.Int("rows", len(rows)))
	return IngestResult{Country: code, Ingested: len(rows)}, nil
}

func (s *service) Query(ctx context.Context, q HolidayQuery) ([]HolidayResponse, error) {
	if q.Country != "" {
		code, err := NormalizeCountry(q.Country)
		if err != nil {
			return nil, err
		}
		q.Country = code
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, holidayerrors.ErrInvalidDateRange
	}
	for _, y := range q.Years {
		if !validYear(y) {
			return nil, holidayerrors.ErrInvalidYear
		}
	}

	rows, err := s.repo.Find(ctx, q)
	if err != nil {
		s.logger.Error("query holidays failed", zap.String("country", q.Country), zap.Error(err))
		return nil, err
	}

	resp := make([]HolidayResponse, 0, len(rows))
	for _, h := range rows {
		resp = append(resp, mapToResponse(h))
	}
	return resp, nil
}

func (s *service) DateSet(ctx context.Context, country string, from, to time.Time) (businessday.DateSet, error) {
	set := businessday.NewDateSet()
	if strings.TrimSpace(country) == "" {
		return set, nil
	}

	code, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}

	from, to = businessday.DateOnly(from), businessday.DateOnly(to)
	rows, err := s.repo.Find(ctx, HolidayQuery{Country: code, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	for _, h := range rows {
		set.Add(h.Date)
	}
	return set, nil
}

func (s *service) Sync(ctx context.Context, country string, year int) (SyncResult, error) {
	code, err := NormalizeCountry(country)
	if err != nil {
		return SyncResult{}, err
	}
	if !validYear(year) {
		return SyncResult{}, holidayerrors.ErrInvalidYear
	}

	result := SyncResult{Country: code, Year: year}

	records, err := s.provider.FetchHolidays(ctx, code, year)
	if err != nil {
		s.logger.Warn("holiday provider unavailable, keeping cached rows",
			zap.String("country", code),
			zap.Int("year", year),
			zap.Error(err),
		)
		metrics.ObserveHolidaySync(code, "skipped")
		result.Skipped = true
		result.Warning = holidayerrors.ErrUpstreamUnavailable.Message
		return result, nil
	}

	ingested, err := s.Ingest(ctx, code, records)
	if err != nil {
		metrics.ObserveHolidaySync(code, "failed")
		return result, err
	}

	metrics.ObserveHolidaySync(code, "ok")
	result.Ingested = ingested.Ingested
	return result, nil
}

// SyncAll refreshes every user country for each year. One country failing
// hard does not stop the others; the failures are joined.
func (s *service) SyncAll(ctx context.Context, years []int) ([]SyncResult, error) {
	countries, err := s.countries.ListCountries(ctx)
	if err != nil {
		s.logger.Error("list countries for sync failed", zap.Error(err))
		return nil, err
	}

	var (
		results []SyncResult
		errs    []error
	)
	for _, country := range countries {
		for _, year := range years {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			res, err := s.Sync(ctx, country, year)
			if err != nil {
				s.logger.Error("holiday sync failed",
					zap.String("country", country),
					zap.Int("year", year),
					zap.Error(err),
				)
				errs = append(errs, err)
				continue
			}
			results = append(results, res)
		}
	}

	s.logger.Info("holiday sync finished",
		zap.Int("countries", len(countries)),
		zap.Int("results", len(results)),
		zap.Int("failures", len(errs)),
	)
	return results, errors.Join(errs...)
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, country, date string) error {
	if !actor.IsAdmin {
		s.logger.Warn("holiday delete denied", zap.String("actor_id", actor.ID.String()))
		return holidayerrors.ErrAdminRequired
	}

	code, err := NormalizeCountry(country)
	if err != nil {
		return err
	}
	day, err := businessday.ParseDate(date)
	if err != nil {
		return holidayerrors.ErrInvalidDateFormat
	}

	h, err := s.repo.FindByCountryAndDate(ctx, code, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, h); err != nil {
		s.logger.Error("delete holiday failed", zap.String("country", code), zap.String("date", date), zap.Error(err))
		return err
	}

	s.logger.Info("holiday deleted",
		zap.String("country", code),
		zap.String("date", date),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

func mapToResponse(h PublicHoliday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		Country:   h.Country,
		Date:      h.Date.Format(businessday.DateLayout),
		Name:      h.Name,
		LocalName: h.LocalName,
		Type:      h.Type,
		Year:      h.Year,
		UpdatedAt: h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
