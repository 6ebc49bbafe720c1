package leave

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/domain"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{svc: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeBindError(c *gin.Context, err error) {
	appErr := apperror.MapValidationError(err)
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
}

// requireActor aborts with 401 when no identity was resolved upstream.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		writeServiceError(c, leaveerrors.ErrAuthenticationRequired)
		return domain.Actor{}, false
	}
	return actor, true
}

func (h *Handler) Submit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Submit(ctx, actor, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if warnings := conflictWarnings(res.Conflicts); len(warnings) > 0 {
		response.SuccessWithWarnings(c, http.StatusCreated, res, warnings)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func conflictWarnings(r ConflictReport) []string {
	var warnings []string
	if n := len(r.Team); n > 0 {
		warnings = append(warnings, fmt.Sprintf("overlaps %d approved team leave request(s)", n))
	}
	if n := len(r.Holidays); n > 0 {
		warnings = append(warnings, fmt.Sprintf("includes %d public holiday(s)", n))
	}
	return warnings
}

func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	resp, err := h.svc.GetAll(ctx, actor, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func parseListFilter(c *gin.Context) (ListFilter, error) {
	var f ListFilter

	if v := strings.TrimSpace(c.Query("owner_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, apperror.InvalidField("owner_id")
		}
		f.OwnerID = &id
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		f.Status = Status(strings.ToLower(v))
	}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := strings.TrimSpace(c.Query(p.key))
		if v == "" {
			continue
		}
		d, err := businessday.ParseDate(v)
		if err != nil {
			return f, leaveerrors.ErrInvalidDateFormat
		}
		*p.dst = &d
	}
	return f, nil
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.GetByID(ctx, actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Decide(ctx, actor, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Cancel(ctx, actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) CheckTeamConflicts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.CheckTeamConflicts(ctx, actor, c.Query("start"), c.Query("end"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) CheckHolidayConflicts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.CheckHolidayConflicts(ctx, actor, c.Query("start"), c.Query("end"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
