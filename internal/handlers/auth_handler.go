package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var errSlugTaken = errors.New("slug taken")

// --------- Handlers ---------

// Register creates a business together with its owner.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	business := models.Business{
		Name:    req.BusinessName,
		Slug:    strings.ToLower(strings.TrimSpace(req.BusinessSlug)),
		Phone:   req.BusinessPhone,
		Address: req.BusinessAddress,
	}
	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
		Active:       true,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", business.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errSlugTaken
		}
		if err := tx.Create(&business).Error; err != nil {
			return err
		}

		user.BusinessID = business.ID
		return tx.Omit("Business").Create(&user).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errSlugTaken):
			httperr.Write(c, http.StatusConflict, "slug_already_exists", "Business slug already taken.")
		case httperr.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey):
			httperr.Write(c, http.StatusConflict, "email_already_exists", "Email already registered.")
		default:
			httperr.Respond(c, err)
		}
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, &user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":     userView(&user),
		"business": business,
		"token":    token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.WriteUnauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.WriteUnauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if !user.Active {
		httperr.WriteUnauthorized(c, "user_inactive", "This account has been deactivated.")
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, &user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"business": user.Business,
		"token":    token,
	})
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"phone":       u.Phone,
		"role":        u.Role,
		"business_id": u.BusinessID,
	}
}
