package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/dto"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *ucAppointment.CreateAppointment
	update *ucAppointment.UpdateAppointment
	cancel *ucAppointment.CancelAppointment
	pay    *ucAppointment.PayAppointment
	get    *ucAppointment.GetAppointment
	list   *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	cancel *ucAppointment.CancelAppointment,
	pay *ucAppointment.PayAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		cancel: cancel,
		pay:    pay,
		get:    get,
		list:   list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	StaffServiceID uint   `json:"staff_service_id" binding:"required"`
	Date           string `json:"date" binding:"required,isodate"`
	Time           string `json:"time" binding:"required,clock"`
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone"`
	CustomerEmail  string `json:"customer_email" binding:"omitempty,email"`
	Notes          string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty" binding:"omitempty,email"`
	Notes         *string `json:"notes,omitempty"`
	Date          *string `json:"date,omitempty" binding:"omitempty,isodate"`
	Time          *string `json:"time,omitempty" binding:"omitempty,clock"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type PayAppointmentRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseWallClock(req.Date, req.Time)
	if err != nil {
		httperr.WriteBadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	userID := currentUserID(c)
	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BusinessID:     currentBusinessID(c),
		StaffServiceID: req.StaffServiceID,
		Start:          start,
		Customer: ucAppointment.CustomerInfo{
			Name:  req.CustomerName,
			Phone: req.CustomerPhone,
			Email: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
			Notes: req.Notes,
		},
		CreatedByID: &userID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), currentBusinessID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
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
		// inclusive day
		end := to.Add(24 * time.Hour)
		to = &end
	}

	filter := domain.ListFilter{
		BusinessID: currentBusinessID(c),
		Status:     domain.Status(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		From:       from,
		To:         to,
		Limit:      queryInt(c, "limit", 100, 500),
		Offset:     queryInt(c, "offset", 0, 0),
	}
	if v := c.Query("staff_service_id"); v != "" {
		id := queryInt(c, "staff_service_id", 0, 0)
		if id == 0 {
			httperr.WriteBadRequest(c, "invalid_id", "Invalid staff_service_id.")
			return
		}
		filter.StaffServiceID = uint(id)
	}

	apps, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentList(apps))
}

// ======================================================
// UPDATE / RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	edit := domain.Edit{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	}

	if (req.Date == nil) != (req.Time == nil) {
		httperr.WriteBadRequest(c, "invalid_date_or_time", "date and time must be sent together.")
		return
	}
	if req.Date != nil {
		start, err := parseWallClock(*req.Date, *req.Time)
		if err != nil {
			httperr.WriteBadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}
		edit.StartTime = &start
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		BusinessID:    currentBusinessID(c),
		AppointmentID: id,
		ActorID:       ptr(currentUserID(c)),
		Edit:          edit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		BusinessID:    currentBusinessID(c),
		AppointmentID: id,
		ActorID:       ptr(currentUserID(c)),
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Pay(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PayAppointmentRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	ap, p, err := h.pay.Execute(c.Request.Context(), ucAppointment.PayAppointmentInput{
		BusinessID:    currentBusinessID(c),
		AppointmentID: id,
		ActorID:       ptr(currentUserID(c)),
		Method:        req.Method,
		Reference:     req.Reference,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"appointment": ap,
		"payment":     p,
	})
}
