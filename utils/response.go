package utils

import (
	"errors"
	"net/http"

	"workshop-inventory/apperrors"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, status int, message string, err error) {
	resp := gin.H{"message": message}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(status, resp)
}

// Fail maps the error taxonomy onto HTTP statuses: validation 400, missing
// entities 404, lifecycle violations 409, anything else 500.
func Fail(c *gin.Context, err error) {
	var (
		validationErr   *apperrors.ValidationError
		notFoundErr     *apperrors.NotFoundError
		businessRuleErr *apperrors.BusinessRuleError
	)
	switch {
	case errors.As(err, &validationErr):
		Error(c, http.StatusBadRequest, "validation failed", err)
	case errors.As(err, &notFoundErr):
		Error(c, http.StatusNotFound, "not found", err)
	case errors.As(err, &businessRuleErr):
		Error(c, http.StatusConflict, "operation not allowed", err)
	default:
		Error(c, http.StatusInternalServerError, "internal error", err)
	}
}
