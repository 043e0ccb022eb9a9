package handlers

import (
	"errors"
	"net/http"

	"lawqna-backend/store"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondStoreError maps store client failures onto the HTTP taxonomy:
// missing rows become 404, upstream failures are forwarded with their
// original status and body, anything else is a 500.
func respondStoreError(c *gin.Context, err error, notFoundMessage string) {
	var upstream *store.UpstreamError
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage)
	case errors.As(err, &upstream):
		respondError(c, upstream.StatusCode, "UPSTREAM_ERROR", upstream.Body)
	default:
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
	}
}
