package handler

import (
	"errors"
	"net/http"

	entity "market-catalog/internal/domain"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// writeError is the single place domain errors become HTTP responses.
func writeError(c *gin.Context, err error) {
	var validationErr *entity.ValidationError
	var uploadErr *entity.UploadError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: validationErr.Message, Field: validationErr.Field})
	case errors.Is(err, entity.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Message: err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Code: "forbidden", Message: err.Error()})
	case errors.Is(err, entity.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Message: err.Error()})
	case errors.As(err, &uploadErr):
		report(c, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "upload_error", Message: uploadErr.Error()})
	default:
		report(c, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "unexpected_error", Message: err.Error()})
	}
}

// report is a no-op unless sentry was initialised with a DSN.
func report(c *gin.Context, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.Scope().SetRequest(c.Request)
	hub.Scope().SetTag("route", c.FullPath())
	hub.CaptureException(err)
}
