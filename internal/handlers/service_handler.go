package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	BaseDuration int     `json:"base_duration" binding:"required,min=1,max=1440"`
	BasePrice    float64 `json:"base_price" binding:"min=0"`
	Category     string  `json:"category"`
}

// BaseDuration only affects future bookings; existing appointments keep
// the end time they were booked with.
type UpdateServiceRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	BaseDuration *int     `json:"base_duration,omitempty" binding:"omitempty,min=1,max=1440"`
	BasePrice    *float64 `json:"base_price,omitempty" binding:"omitempty,min=0"`
	Category     *string  `json:"category,omitempty"`
	Active       *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := currentBusinessID(c)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", businessID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.ServiceDefinition
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc := models.ServiceDefinition{
		BusinessID:   currentBusinessID(c),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		BaseDuration: req.BaseDuration,
		BasePrice:    req.BasePrice,
		Category:     strings.ToLower(req.Category),
		Active:       true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var svc models.ServiceDefinition
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, currentBusinessID(c)).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.WriteNotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.BaseDuration != nil {
		svc.BaseDuration = *req.BaseDuration
	}
	if req.BasePrice != nil {
		svc.BasePrice = *req.BasePrice
	}
	if req.Category != nil {
		svc.Category = strings.ToLower(*req.Category)
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, svc)
}
