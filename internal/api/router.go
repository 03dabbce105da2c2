package api

import (
	"fmt"
	"net/http"

	"employee-directory/internal/api/handlers"
	"employee-directory/internal/api/middleware"
	"employee-directory/internal/api/websocket"
	"employee-directory/web"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// RouterDeps - зависимости HTTP слоя
type RouterDeps struct {
	Handler   *handlers.Handler
	Account   *handlers.AccountHandler
	WebSocket *websocket.Handler
	Sessions  sessions.Store
	ImagesDir string
}

// NewRouter настраивает роутер с middleware и endpoints
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать шаблоны: %w", err)
	}

	router := gin.New()
	// /home/details и /Home/Details ведут на один маршрут
	router.RedirectFixedPath = true
	router.SetHTMLTemplate(templates)

	// Middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.LoadUser(deps.Sessions))

	// Статические файлы
	router.StaticFS("/static", http.FS(web.Static()))
	router.Static("/images", deps.ImagesDir)

	requireAuth := middleware.RequireAuth(deps.Sessions)
	h := deps.Handler

	router.GET("/", h.Index)
	router.GET("/Home", h.Index)

	home := router.Group("/Home")
	{
		home.GET("/Index", h.Index)
		home.GET("/Details", h.Details)
		home.GET("/Details/:id", h.Details)
		home.GET("/Create", h.CreateForm)
		home.POST("/Create", requireAuth, h.Create)
		home.GET("/Edit", requireAuth, h.EditForm)
		home.GET("/Edit/:id", requireAuth, h.EditForm)
		home.POST("/Edit", requireAuth, h.Edit)
		home.POST("/Delete", requireAuth, h.Delete)
	}

	account := router.Group("/Account")
	{
		account.GET("/Login", deps.Account.LoginForm)
		account.POST("/Login", deps.Account.Login)
		account.POST("/Logout", deps.Account.Logout)
	}

	// API группа
	apiGroup := router.Group("/api", middleware.CORS())
	{
		apiGroup.GET("/employees", h.HandleGetEmployees)
		apiGroup.GET("/employees/:id", h.HandleGetEmployee)
		apiGroup.DELETE("/employees/:id", requireAuth, h.HandleDeleteEmployee)
		// preflight обрабатывает CORS middleware
		apiGroup.OPTIONS("/*path", func(c *gin.Context) {})
	}

	// WebSocket endpoint
	if deps.WebSocket != nil {
		router.GET("/ws", deps.WebSocket.HandleWebSocket)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "employee-directory",
		})
	})

	return router, nil
}
