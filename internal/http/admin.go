package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"giveaway-registration-bot/internal/common/logger"
	"giveaway-registration-bot/internal/features/registration/repository"
)

// AdminHandler обслуживает служебный HTTP-интерфейс: здоровье процесса,
// число участников и выгрузка таблицы.
type AdminHandler struct {
	repo             repository.ParticipantRepository
	participantsFile string
}

func NewAdminHandler(repo repository.ParticipantRepository, participantsFile string) *AdminHandler {
	return &AdminHandler{
		repo:             repo,
		participantsFile: participantsFile,
	}
}

// NewRouter собирает gin-движок со служебными маршрутами.
func NewRouter(handler *AdminHandler, origin string, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{origin},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/participants/count", handler.ParticipantsCount)
		api.GET("/participants/export", handler.ExportParticipants)
	}

	return router
}

func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ParticipantsCount(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count participants")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to count participants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *AdminHandler) ExportParticipants(c *gin.Context) {
	if _, err := os.Stat(h.participantsFile); os.IsNotExist(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no participants registered yet"})
		return
	}
	c.FileAttachment(h.participantsFile, "participants.xlsx")
}

// RequestID проставляет каждому запросу идентификатор для корреляции логов.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// AccessLog пишет access-лог через zerolog.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}
