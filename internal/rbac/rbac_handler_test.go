package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct{}

func (f *fakeService) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Role == domain.RoleAdmin && req.Resource == domain.ResourceLeave && req.Action == domain.ActionDecide, nil
}

func (f *fakeService) IsAdmin(role string) bool {
	return role == domain.RoleAdmin
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    domain.EnforceResponse `json:"data"`
}

func doCheck(t *testing.T, role string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/rbac/check", func(c *gin.Context) {
		c.Set("role", role)
		c.Next()
	}, NewHandler(&fakeService{}).Check)

	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/rbac/check", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHandler_Check(t *testing.T) {
	t.Run("admin allowed to decide", func(t *testing.T) {
		w, env := doCheck(t, domain.RoleAdmin, map[string]string{"resource": "leave", "action": "decide"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.True(t, env.Data.Allowed)
	})

	t.Run("member denied", func(t *testing.T) {
		w, env := doCheck(t, domain.RoleMember, map[string]string{"resource": "leave", "action": "decide"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, env.Data.Allowed)
	})

	t.Run("negative missing action", func(t *testing.T) {
		w, env := doCheck(t, domain.RoleAdmin, map[string]string{"resource": "leave"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})
}
