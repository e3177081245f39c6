package http

import (
	"errors"
	"log"
	"net/http"

	"pharmacy-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// classify maps the domain error taxonomy to a status code and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "InvalidQuantity"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "InvalidInput"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "ProductNotFound"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "OrderNotFound"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, "CustomerNotFound"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "InvalidCredentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "Unauthorized"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "InsufficientStock"
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusConflict, "AlreadyCancelled"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "Conflict"
	}
	return http.StatusInternalServerError, "StorageFailure"
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	body := gin.H{"error": code, "message": err.Error()}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["available"] = stockErr.Available
	}
	if status == http.StatusInternalServerError {
		log.Printf("request %s: %s %s failed: %v", c.GetString(requestIDKey), c.Request.Method, c.FullPath(), err)
		body["message"] = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}
