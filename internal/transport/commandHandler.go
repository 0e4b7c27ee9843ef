package transport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/modbot/remindersvc/internal/command"
)

type CommandHandler struct {
	registry *command.Registry
}

func NewCommandHandler(registry *command.Registry) *CommandHandler {
	return &CommandHandler{registry: registry}
}

// commandRequest is what the host bot posts for every command message. The
// host either forwards the raw prefix text in content, or pre-splits a
// structured (slash-style) invocation into name and args.
type commandRequest struct {
	Content   string   `json:"content"`
	Name      string   `json:"name"`
	Args      []string `json:"args"`
	UserID    string   `json:"user_id" binding:"required"`
	GuildID   string   `json:"guild_id"`
	ChannelID string   `json:"channel_id" binding:"required"`
	IsAdmin   bool     `json:"is_admin"`
}

func (h *CommandHandler) HandleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.ToLower(req.Name)
	args := req.Args
	if name == "" {
		var ok bool
		name, args, ok = command.ParseText(req.Content)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty command"})
			return
		}
	}

	// Replies go back through the chat transport, not this response, so the
	// host only learns that the command was taken.
	h.registry.Execute(c.Request.Context(), &command.Invocation{
		Name:      name,
		Args:      args,
		UserID:    req.UserID,
		GuildID:   req.GuildID,
		ChannelID: req.ChannelID,
		IsAdmin:   req.IsAdmin,
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
