package holiday

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-leave/internal/businessday"
	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("holiday.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.handler")
	}
	return &Handler{svc: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parseOptionalDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := businessday.ParseDate(v)
	if err != nil {
		return nil, holidayerrors.ErrInvalidDateFormat
	}
	return &d, nil
}

// parseYears accepts ?year=2025&year=2026 as well as ?year=2025,2026.
func parseYears(values []string) ([]int, error) {
	var years []int
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			y, err := strconv.Atoi(part)
			if err != nil {
				return nil, holidayerrors.ErrInvalidYear
			}
			years = append(years, y)
		}
	}
	return years, nil
}

func (h *Handler) Query(c *gin.Context) {
	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	years, err := parseYears(c.QueryArray("year"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	resp, err := h.svc.Query(ctx, HolidayQuery{
		Country: c.Query("country"),
		From:    from,
		To:      to,
		Years:   years,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	records := make([]Record, 0, len(req.Holidays))
	for _, r := range req.Holidays {
		date, err := businessday.ParseDate(strings.TrimSpace(r.Date))
		if err != nil {
			writeServiceError(c, holidayerrors.ErrInvalidDateFormat)
			return
		}
		records = append(records, Record{
			Date:      date,
			Name:      r.Name,
			LocalName: r.LocalName,
			Type:      r.Type,
		})
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Ingest(ctx, c.Param("country"), records)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Sync(c *gin.Context) {
	year := time.Now().Year()
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeServiceError(c, holidayerrors.ErrInvalidYear)
			return
		}
		year = y
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Sync(ctx, c.Param("country"), year)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if res.Skipped {
		response.SuccessWithWarnings(c, http.StatusOK, res, []string{res.Warning})
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	if err := h.svc.Delete(ctx, actor, c.Param("country"), c.Param("date")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
