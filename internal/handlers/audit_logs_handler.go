package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1, 0)
	limit := queryInt(c, "limit", 50, 200)

	from, err := parseDate(c.Query("from"))
	if err != nil {
		httperr.WriteBadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		httperr.WriteBadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
		return
	}
	if to != nil {
		end := to.Add(24 * time.Hour)
		to = &end
	}

	logs, total, err := h.logs.List(c.Request.Context(), audit.Filter{
		BusinessID: currentBusinessID(c),
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
