package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/service"
)

type ReminderHandler struct {
	reminderService service.ReminderService
}

func NewReminderHandler(reminderService service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// CreateReminder is the host-facing create path: the due instant arrives
// already parsed, unlike the command webhook's raw time-and-text string.
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req entity.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reminderService.Create(c.Request.Context(), &service.CreateInput{
		UserID:    req.UserID,
		GuildID:   req.GuildID,
		ChannelID: req.ChannelID,
		Text:      req.Text,
		Due:       req.Due,
		Recurring: req.Recurring,
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrTimeInPast),
			errors.Is(err, entity.ErrTextTooLong),
			errors.Is(err, entity.ErrEmptyText),
			errors.Is(err, entity.ErrInvalidRecurring):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result.Reminder)
}

func (h *ReminderHandler) GetReminder(c *gin.Context) {
	id := c.Param("id")

	reminder, err := h.reminderService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrReminderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *ReminderHandler) GetUserReminders(c *gin.Context) {
	userID := c.Param("user_id")

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	reminders, err := h.reminderService.ListUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "count": len(reminders)})
}

// GetAllReminders serves the admin listing. With ?due_within_hours=N it
// narrows to reminders coming due inside that window.
func (h *ReminderHandler) GetAllReminders(c *gin.Context) {
	var (
		reminders []*entity.Reminder
		err       error
	)

	if raw := c.Query("due_within_hours"); raw != "" {
		hours, aerr := strconv.Atoi(raw)
		if aerr != nil || hours <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_within_hours"})
			return
		}
		reminders, err = h.reminderService.ListDueWithin(c.Request.Context(), time.Duration(hours)*time.Hour, 500)
	} else {
		reminders, err = h.reminderService.ListAllActive(c.Request.Context(), 500)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "count": len(reminders)})
}

func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	id := c.Param("id")

	err := h.reminderService.Delete(c.Request.Context(), id, "", true)
	if err != nil {
		if errors.Is(err, entity.ErrReminderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

type cleanupRequest struct {
	OlderThanDays int `json:"older_than_days"`
}

func (h *ReminderHandler) Cleanup(c *gin.Context) {
	req := cleanupRequest{OlderThanDays: 30}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OlderThanDays <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "older_than_days must be positive"})
		return
	}

	count, err := h.reminderService.Cleanup(c.Request.Context(), req.OlderThanDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": count})
}
