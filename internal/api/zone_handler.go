package api

import (
	"context"
	"net/http"

	"multizone/internal/dto/resp"
	"multizone/internal/model"

	"github.com/gin-gonic/gin"
)

// ZoneProvider is what the zone handler needs from the health checker.
type ZoneProvider interface {
	CheckAll(ctx context.Context) []model.ZoneStatus
}

type ZoneHandler struct {
	checker ZoneProvider
}

func NewZoneHandler(checker ZoneProvider) *ZoneHandler {
	return &ZoneHandler{checker: checker}
}

// Health is the static liveness probe; it never touches the datastore.
func (h *ZoneHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "backend-api"})
}

// ZonesStatus probes every configured zone. The envelope status is always
// "ok": it means the check completed, not that all zones are healthy.
func (h *ZoneHandler) ZonesStatus(c *gin.Context) {
	zones := h.checker.CheckAll(c.Request.Context())
	c.JSON(http.StatusOK, resp.ZoneStatusResponse{
		Status: "ok",
		Zones:  zones,
	})
}
