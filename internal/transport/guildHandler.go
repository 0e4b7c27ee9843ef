package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/service"
)

type GuildHandler struct {
	guildService service.GuildService
}

func NewGuildHandler(guildService service.GuildService) *GuildHandler {
	return &GuildHandler{guildService: guildService}
}

func (h *GuildHandler) GetConfig(c *gin.Context) {
	guildID := c.Param("guild_id")

	cfg, err := h.guildService.GetConfig(c.Request.Context(), guildID)
	if err != nil {
		if errors.Is(err, entity.ErrGuildNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guild not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SetConfig upserts the guild configuration. The host syncs its channel
// name-to-id table through here so the delivery fallback chain can resolve
// channels by name.
func (h *GuildHandler) SetConfig(c *gin.Context) {
	guildID := c.Param("guild_id")

	var cfg entity.GuildConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg.GuildID = guildID

	if err := h.guildService.SetConfig(c.Request.Context(), &cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cfg)
}
