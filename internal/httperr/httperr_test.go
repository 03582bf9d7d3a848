package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"bad request", BadRequest("not_available", "closed on %s", "Sunday"), http.StatusBadRequest, "not_available"},
		{"not found", NotFound("appointment_not_found", "appointment %d not found", 4), http.StatusNotFound, "appointment_not_found"},
		{"conflict", Conflict("time_conflict", "overlaps"), http.StatusConflict, "time_conflict"},
		{"wrapped business", fmt.Errorf("create: %w", Conflict("time_conflict", "x")), http.StatusConflict, "time_conflict"},
		{"exclusion violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"}), http.StatusConflict, "time_conflict"},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict, "already_exists"},
		{"gorm duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, "already_exists"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := respond(t, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantBody, body.Code)
		})
	}
}

func TestRespondHidesInternalDetail(t *testing.T) {
	_, body := respond(t, errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	assert.NotContains(t, body.Message, "10.0.0.1")
}

func TestBusinessErrorHelpers(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("staff_not_found", "staff %d", 9))

	assert.True(t, IsBusiness(err, "staff_not_found"))
	assert.False(t, IsBusiness(err, "other"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "staff_not_found: staff 9", errors.Unwrap(err).Error())

	assert.Equal(t, "invalid", ErrBusiness("invalid").Error())
}
