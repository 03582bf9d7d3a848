package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func WriteBadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func WriteNotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func WriteInternal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func WriteUnauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond writes err as JSON. Business errors keep their code and message;
// storage conflicts become 409; everything else is a 500 with a generic body.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		Write(c, StatusOf(be.Kind), be.Code, be.Message)
		return
	}

	if IsExclusionConflict(err) {
		Write(c, http.StatusConflict, "time_conflict", "The requested interval is already booked.")
		return
	}
	if IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
		Write(c, http.StatusConflict, "already_exists", "Resource already exists.")
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"path", c.FullPath(),
		"err", err,
	)
	WriteInternal(c, "internal_error", "Unexpected error.")
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
