package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func currentBusinessID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextBusinessID).(uint)
}

func currentUserID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func isOwner(c *gin.Context) bool {
	return c.GetString(middleware.ContextUserRole) == models.RoleOwner
}

// paramID reads a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.WriteBadRequest(c, "invalid_id", "Invalid "+name+".")
		return 0, false
	}
	return uint(n), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.WriteBadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

// parseWallClock reads "YYYY-MM-DD" + "HH:MM" as a wall-clock instant.
// No zone conversion happens anywhere downstream.
func parseWallClock(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt(c *gin.Context, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}
