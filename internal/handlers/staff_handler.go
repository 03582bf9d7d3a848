package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type CreateStaffServiceRequest struct {
	StaffID   uint     `json:"staff_id" binding:"required"`
	ServiceID uint     `json:"service_id" binding:"required"`
	Price     *float64 `json:"price" binding:"omitempty,min=0"`
}

type UpdateStaffServiceRequest struct {
	Price      *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	ClearPrice bool     `json:"clear_price"`
	Disabled   *bool    `json:"disabled,omitempty"`
}

// ======================================================
// STAFF
// ======================================================

func (h *StaffHandler) List(c *gin.Context) {
	var staff []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", currentBusinessID(c)).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		BusinessID:   currentBusinessID(c),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleStaff,
		Active:       true,
	}

	if err := h.createUnique(c, &user, "email_already_exists", "Email already registered."); err != nil {
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Deactivate keeps the row (appointments reference it) but blocks new
// availability and bookings.
func (h *StaffHandler) Deactivate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id == currentUserID(c) {
		httperr.WriteBadRequest(c, "cannot_deactivate_self", "You cannot deactivate yourself.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ? AND business_id = ?", id, currentBusinessID(c)).
		Update("active", false)
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.WriteNotFound(c, "staff_not_found", "Staff member not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// STAFF-SERVICES
// ======================================================

func (h *StaffHandler) ListServices(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Preload("ServiceDefinition").
		Where("business_id = ?", currentBusinessID(c))

	if v := c.Query("staff_id"); v != "" {
		q = q.Where("employee_id = ?", queryInt(c, "staff_id", 0, 0))
	}

	var items []models.StaffService
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *StaffHandler) CreateService(c *gin.Context) {
	var req CreateStaffServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	businessID := currentBusinessID(c)
	ctx := c.Request.Context()

	var staff models.User
	if err := h.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", req.StaffID, businessID).
		First(&staff).Error; err != nil {
		h.notFoundOr(c, err, "staff_not_found", "Staff member not found.")
		return
	}

	var svc models.ServiceDefinition
	if err := h.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", req.ServiceID, businessID).
		First(&svc).Error; err != nil {
		h.notFoundOr(c, err, "service_not_found", "Service not found.")
		return
	}

	ss := models.StaffService{
		BusinessID:          businessID,
		EmployeeID:          staff.ID,
		ServiceDefinitionID: svc.ID,
		Price:               req.Price,
	}

	if err := h.createUnique(c, &ss, "staff_service_exists", "This staff member already offers this service."); err != nil {
		return
	}

	ss.ServiceDefinition = svc
	httpresp.Created(c, ss)
}

func (h *StaffHandler) UpdateService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var ss models.StaffService
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, currentBusinessID(c)).
		First(&ss).Error; err != nil {
		h.notFoundOr(c, err, "staff_service_not_found", "Staff-service not found.")
		return
	}

	var req UpdateStaffServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.ClearPrice {
		ss.Price = nil
	} else if req.Price != nil {
		ss.Price = req.Price
	}
	if req.Disabled != nil {
		ss.Disabled = *req.Disabled
	}

	if err := h.db.WithContext(c.Request.Context()).
		Omit(clause.Associations).
		Save(&ss).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ss)
}

// ------------------------------------------------------

func (h *StaffHandler) createUnique(c *gin.Context, row any, code, msg string) error {
	err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(row).Error
	if err == nil {
		return nil
	}
	if httperr.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
		httperr.Write(c, http.StatusConflict, code, msg)
		return err
	}
	httperr.Respond(c, err)
	return err
}

func (h *StaffHandler) notFoundOr(c *gin.Context, err error, code, msg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.WriteNotFound(c, code, msg)
		return
	}
	httperr.Respond(c, err)
}
