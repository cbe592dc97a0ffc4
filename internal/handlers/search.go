package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/services"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// All runs a case-insensitive regex search across users, submissions and
// comments and returns the tagged matches.
func (h *SearchHandler) All(c *gin.Context) {
	results, err := h.search.All(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
