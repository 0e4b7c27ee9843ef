package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modbot/remindersvc/internal/transport/middleware"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func() error

func InitRoutes(
	commandHandler *CommandHandler,
	interactionHandler *InteractionHandler,
	reminderHandler *ReminderHandler,
	guildHandler *GuildHandler,
	checks map[string]HealthChecker,
) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30 * time.Second))

	// API routes
	api := router.Group("/api/v1")
	{
		// Webhook routes, called by the host bot
		api.POST("/commands", commandHandler.HandleCommand)
		api.POST("/interactions", interactionHandler.HandleInteraction)

		// Reminder routes
		reminders := api.Group("/reminders")
		{
			reminders.POST("", reminderHandler.CreateReminder)
			reminders.GET("/:id", reminderHandler.GetReminder)
		}
		api.GET("/users/:user_id/reminders", reminderHandler.GetUserReminders)

		// Guild routes
		guilds := api.Group("/guilds")
		{
			guilds.GET("/:guild_id/config", guildHandler.GetConfig)
			guilds.PUT("/:guild_id/config", guildHandler.SetConfig)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.GET("/reminders", reminderHandler.GetAllReminders)
			admin.DELETE("/reminders/:id", reminderHandler.DeleteReminder)
			admin.POST("/cleanup", reminderHandler.Cleanup)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		result := gin.H{"status": "ok"}
		for name, check := range checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				result["status"] = "degraded"
				result[name] = err.Error()
			} else {
				result[name] = "ok"
			}
		}
		c.JSON(status, result)
	})

	return router
}
