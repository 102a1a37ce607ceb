package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/feedmill/feedmill-backend/internal/http/response"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperr.ErrInsufficientStock):
		response.RespondError(c, http.StatusConflict, "insufficient_stock", err)
	case errors.Is(err, apperr.ErrMandatoryUnavailable):
		response.RespondError(c, http.StatusUnprocessableEntity, "mandatory_unavailable", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
