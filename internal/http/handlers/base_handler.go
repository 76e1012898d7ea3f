// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeline/internal/modules/hospital"
	"lifeline/internal/modules/matching"
	"lifeline/internal/modules/request"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto status codes. No-eligible-
// hospital is 422: a normal business outcome the client should retry
// later, distinct from 404 meaning a bad id.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, request.ErrInvalidInput), errors.Is(err, hospital.ErrInvalidCapacity):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, request.ErrNotFound), errors.Is(err, hospital.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, request.ErrInvalidTransition):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, matching.ErrNoEligibleHospital):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
