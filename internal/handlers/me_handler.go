package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		First(&user, currentUserID(c)).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.WriteUnauthorized(c, "user_not_found", "User no longer exists.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"business": user.Business,
	})
}

// --------- Business profile ---------

type UpdateBusinessRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (h *MeHandler) GetBusiness(c *gin.Context) {
	var business models.Business
	if err := h.db.WithContext(c.Request.Context()).
		First(&business, currentBusinessID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.WriteNotFound(c, "business_not_found", "Business not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, business)
}

func (h *MeHandler) UpdateBusiness(c *gin.Context) {
	var business models.Business
	if err := h.db.WithContext(c.Request.Context()).
		First(&business, currentBusinessID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.WriteNotFound(c, "business_not_found", "Business not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var req UpdateBusinessRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.Phone != nil {
		business.Phone = *req.Phone
	}
	if req.Address != nil {
		business.Address = *req.Address
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&business).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, business)
}
