package server

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/yourusername/backscroll/internal/protocol"
)

// Server serves the fixture history over HTTP
type Server struct {
	history *History
	log     *log.Logger
	app     *fiber.App
}

// NewServer builds the fiber app for a history
func NewServer(history *History, l *log.Logger, requestLogging bool) *Server {
	s := &Server{
		history: history,
		log:     l,
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			AppName:               "backscroll-server",
		}),
	}

	if requestLogging {
		s.app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path}?${queryParams} ${latency} ${reqHeader:X-Request-ID}\n",
		}))
	}

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get(protocol.ChatPath, s.handleChat)
	return s
}

// App exposes the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.log.Info("serving chat history", "addr", addr, "messages", s.history.Len(), "page_size", s.history.PageSize())
	return s.app.Listen(addr)
}

// Shutdown stops the listener
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	raw := c.Query(protocol.PageParam, "0")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(protocol.ErrorPayload{
			Message: "page must be a non-negative integer",
		})
	}

	body := s.history.Page(page)
	s.log.Debug("served page", "page", page, "records", len(body.Chats))
	return c.JSON(body)
}
