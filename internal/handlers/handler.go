package handlers

import (
	"net/http"

	"travelstory/internal/feed"
	"travelstory/internal/logger"
	"travelstory/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config carries the directories served as static content.
type Config struct {
	UploadsDir string
	AssetsDir  string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	events   *feed.Feed
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, events *feed.Feed, log *logger.Logger, cfg Config) *Handler {
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "uploads"
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = "assets"
	}
	return &Handler{services: services, events: events, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Uploaded images and the placeholder, publicly readable
	router.Static("/uploads", h.cfg.UploadsDir)
	router.Static("/assets", h.cfg.AssetsDir)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/user", h.getUser)
		h.registerStoryRoutes(api)
		h.registerImageRoutes(api)
	}
}

func (h *Handler) registerStoryRoutes(api *gin.RouterGroup) {
	stories := api.Group("/stories")
	{
		stories.POST("", h.createStory)
		stories.GET("", h.listStories)
		stories.PUT("/:id", h.editStory)
		stories.DELETE("/:id", h.deleteStory)
		stories.PUT("/:id/favourite", h.setFavourite)
		stories.GET("/search", h.searchStories)
		stories.GET("/filter", h.filterStories)
		// WebSocket feed of story changes (HTTP upgrade) — same port
		stories.GET("/feed", h.wsStoryFeed)
	}
}

func (h *Handler) registerImageRoutes(api *gin.RouterGroup) {
	images := api.Group("/images")
	{
		images.POST("", h.uploadImage)
		images.DELETE("", h.deleteImage)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
