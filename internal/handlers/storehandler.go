package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/korea-job-board/internal/store"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type StoreHandler struct {
	Store *store.Store
}

func NewStoreHandler(s *store.Store) *StoreHandler {
	return &StoreHandler{Store: s}
}

func (h *StoreHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, status(h.Store))
}

// Reload is POST /store/reload. A failed reload keeps serving the previous data.
func (h *StoreHandler) Reload(c *gin.Context) {
	if err := h.Store.LoadAll(c.Request.Context()); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status(h.Store))
}

func status(s *store.Store) gin.H {
	return gin.H{
		"loading":      s.Loading(),
		"error":        s.Err(),
		"jobs":         len(s.Jobs()),
		"applications": len(s.Applications()),
	}
}
