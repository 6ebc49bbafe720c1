package balance

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	now    func() time.Time
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{svc: service, now: time.Now, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetMine(c *gin.Context) {
	h.get(c, "")
}

func (h *Handler) GetByUser(c *gin.Context) {
	h.get(c, c.Param("user_id"))
}

func (h *Handler) get(c *gin.Context, userID string) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		writeServiceError(c, balanceerrors.ErrAuthenticationRequired)
		return
	}

	year := h.now().UTC().Year()
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeServiceError(c, balanceerrors.ErrInvalidYear)
			return
		}
		year = y
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	snap, err := h.svc.GetBalance(ctx, actor, userID, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, snap, nil)
}
