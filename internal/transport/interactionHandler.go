package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/interaction"
	"github.com/modbot/remindersvc/pkg/rabbitmq"
)

type InteractionHandler struct {
	queue rabbitmq.Queue
}

func NewInteractionHandler(queue rabbitmq.Queue) *InteractionHandler {
	return &InteractionHandler{queue: queue}
}

// interactionRequest is one component callback from the host. The host may
// send the component custom id verbatim instead of the unpacked
// view/action/reminder triple.
type interactionRequest struct {
	CustomID   string            `json:"custom_id"`
	ViewKind   string            `json:"view_kind"`
	Action     string            `json:"action"`
	ReminderID string            `json:"reminder_id"`
	UserID     string            `json:"user_id" binding:"required"`
	IsAdmin    bool              `json:"is_admin"`
	GuildID    string            `json:"guild_id"`
	ChannelID  string            `json:"channel_id" binding:"required"`
	MessageID  string            `json:"message_id" binding:"required"`
	Values     map[string]string `json:"values"`
}

// HandleInteraction validates the callback and hands it to the queue. The
// dispatcher consumes it asynchronously; the webhook only acknowledges
// receipt.
func (h *InteractionHandler) HandleInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	env := interaction.Envelope{
		ID:         interaction.NewEnvelopeID(),
		ViewKind:   req.ViewKind,
		Action:     req.Action,
		ReminderID: req.ReminderID,
		UserID:     req.UserID,
		IsAdmin:    req.IsAdmin,
		GuildID:    req.GuildID,
		ChannelID:  req.ChannelID,
		MessageID:  req.MessageID,
		Values:     req.Values,
	}

	if req.CustomID != "" {
		view, action, reminderID, ok := interaction.ParseCustomID(req.CustomID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed custom_id"})
			return
		}
		env.ViewKind = view
		env.Action = action
		if reminderID != "" {
			env.ReminderID = reminderID
		}
	}

	if env.ViewKind == "" || env.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view_kind and action are required"})
		return
	}

	if err := h.queue.Publish(c.Request.Context(), env); err != nil {
		logrus.Errorf("Failed to enqueue interaction %s: %v", env.ID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "interaction queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "id": env.ID})
}
