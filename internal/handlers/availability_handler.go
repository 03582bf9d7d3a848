package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

type AvailabilityHandler struct {
	set   *ucAvailability.SetWeeklyAvailability
	get   *ucAvailability.GetWeeklyAvailability
	check *ucAvailability.CheckAvailability
}

func NewAvailabilityHandler(
	set *ucAvailability.SetWeeklyAvailability,
	get *ucAvailability.GetWeeklyAvailability,
	check *ucAvailability.CheckAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{set: set, get: get, check: check}
}

// --------- Requests ---------

type AvailabilitySlotRequest struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time" binding:"required,clock"`
	EndTime     string `json:"end_time" binding:"required,clock"`
	IsOvernight bool   `json:"is_overnight"`
}

type SetAvailabilityRequest struct {
	Slots []AvailabilitySlotRequest `json:"slots" binding:"required,dive"`
}

// --------- Handlers ---------

// Staff manage their own week; owners manage anyone's.
func (h *AvailabilityHandler) allowed(c *gin.Context, staffID uint) bool {
	if isOwner(c) || currentUserID(c) == staffID {
		return true
	}
	httperr.Write(c, http.StatusForbidden, "forbidden", "Only owners can manage other staff members.")
	return false
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	rows, err := h.get.Execute(c.Request.Context(), currentBusinessID(c), staffID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *AvailabilityHandler) Replace(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok || !h.allowed(c, staffID) {
		return
	}

	var req SetAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	slots := make([]ucAvailability.SlotInput, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, ucAvailability.SlotInput{
			DayOfWeek:   s.DayOfWeek,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsOvernight: s.IsOvernight,
		})
	}

	rows, err := h.set.Execute(c.Request.Context(), ucAvailability.SetWeeklyAvailabilityInput{
		BusinessID: currentBusinessID(c),
		StaffID:    staffID,
		ActorID:    ptr(currentUserID(c)),
		Slots:      slots,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, rows)
}

// Check answers GET ?date=YYYY-MM-DD&time=HH:MM&duration=minutes.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	start, err := parseWallClock(c.Query("date"), c.Query("time"))
	if err != nil {
		httperr.WriteBadRequest(c, "invalid_date_or_time", "date and time are required (YYYY-MM-DD, HH:MM).")
		return
	}

	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		httperr.WriteBadRequest(c, "invalid_duration", "duration must be a number of minutes.")
		return
	}

	available, err := h.check.Execute(c.Request.Context(), currentBusinessID(c), staffID, start, duration)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"staff_id":  staffID,
		"start":     start,
		"duration":  duration,
		"available": available,
	})
}
