// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcover/internal/http/handlers"
	"tripcover/internal/http/middleware"
	"tripcover/internal/modules/dialogue"
)

type ServerDeps struct {
	Dialogue *dialogue.Service
}

type Server struct {
	dialogue *dialogue.Service
}

func NewServer(deps ServerDeps) *Server {
	return &Server{dialogue: deps.Dialogue}
}

func (s *Server) Routes() http.Handler {
	engine := gin.New()
	engine.Use(middleware.Logging(), middleware.Recovery())

	chatHandler := handlers.NewChatHandler(s.dialogue)
	engine.POST("/api/chat/turn", chatHandler.Turn)

	sessionHandler := handlers.NewSessionHandler(s.dialogue)
	engine.GET("/api/sessions/:id", sessionHandler.Get)
	engine.POST("/api/sessions/:id/documents", sessionHandler.Documents)

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return engine
}
