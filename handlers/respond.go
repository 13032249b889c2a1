package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"store-rating-api/services"
)

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "fail", "message": message})
}

// serviceError maps the service error taxonomy onto HTTP codes. Anything
// outside the taxonomy is logged and answered with a generic 500 so store
// internals never leak.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrTokenNotFound):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateRating):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidRatingValue):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrRatingNotFound),
		errors.Is(err, services.ErrNoShopsFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected service error")
		fail(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// idParam parses a numeric path parameter, failing the request on garbage.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
