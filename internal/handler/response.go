// Package handler implements the HTTP handlers of the catalog API. It is
// the presentation layer: handlers translate requests into catalog
// service calls and wrap every outcome in the uniform response envelope.
// No error propagates past a handler.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cerrors "github.com/meli-challenge/catalog-api/pkg/errors"
)

// Response is the uniform envelope returned by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// respondServiceError maps the catalog error taxonomy onto the HTTP
// status classes: not-found outcomes are 404, validation failures 400,
// persistence failures 500. Anything unclassified is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case cerrors.IsNotFound(err):
		respondError(c, http.StatusNotFound, notFoundMessage(err))
	case cerrors.IsValidation(err):
		respondError(c, http.StatusBadRequest, "Invalid request")
	case cerrors.IsPersistence(err):
		respondError(c, http.StatusInternalServerError, "Failed to save changes")
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, cerrors.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, cerrors.ErrMerchantNotFound):
		return "Merchant not found"
	case errors.Is(err, cerrors.ErrDiscountNotFound):
		return "Discount not found"
	default:
		return "Price option not found"
	}
}
