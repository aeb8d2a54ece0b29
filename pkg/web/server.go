package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/elicazer/AIRobotAssistant/internal/log"
	"github.com/elicazer/AIRobotAssistant/pkg/head"
	"github.com/elicazer/AIRobotAssistant/pkg/servo"
)

// Status is the control panel's view of the head.
type Status struct {
	Profile     string         `json:"profile"`
	Speaking    bool           `json:"speaking"`
	WriteErrors uint64         `json:"write_errors"`
	Pose        map[string]int `json:"pose"`
	Clients     int            `json:"clients"`
}

// Server hosts the status API and the pose websocket feed.
type Server struct {
	app  *fiber.App
	port string
	hub  *Hub

	mu       sync.RWMutex
	sink     *servo.Sink
	speaking bool

	// OnCloseEyes handles the manual "close eyes" override.
	OnCloseEyes func()
}

// NewServer creates the control panel server for the given sink.
func NewServer(port string, sink *servo.Sink) *Server {
	s := &Server{
		port: port,
		hub:  NewHub("pose"),
		sink: sink,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Animatronic Head",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/pose", s.handlePose)
	api.Post("/eyes/close", s.handleCloseEyes)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/pose", websocket.New(func(conn *websocket.Conn) {
		NewClient(s.hub, conn).Run()
	}))

	s.app = app
	return s
}

// Start runs the hub and the HTTP listener. Blocks.
func (s *Server) Start() error {
	go s.hub.Run()
	log.Info("control panel listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishCommand forwards one accepted angle command to the virtual
// robot feed. Wired as the sink's observer; never blocks.
func (s *Server) PublishCommand(cmd servo.AngleCommand) {
	s.hub.Broadcast(Message{Type: "angle", Data: cmd})
}

// PublishEvent forwards a lifecycle event to the feed.
func (s *Server) PublishEvent(ev head.Event) {
	if ev.Kind == head.SpeechStarted || ev.Kind == head.SpeechEnded {
		s.mu.Lock()
		s.speaking = ev.Kind == head.SpeechStarted
		s.mu.Unlock()
	}
	s.hub.Broadcast(Message{Type: "event", Data: map[string]string{
		"kind": ev.Kind.String(),
		"at":   ev.At.Format("15:04:05.000"),
	}})
}

// Snapshot returns the current status.
func (s *Server) Snapshot() Status {
	s.mu.RLock()
	speaking := s.speaking
	s.mu.RUnlock()

	return Status{
		Profile:     s.sink.Profile().Name,
		Speaking:    speaking,
		WriteErrors: s.sink.ErrorCount(),
		Pose:        s.sink.Snapshot(),
		Clients:     s.hub.ClientCount(),
	}
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Snapshot())
}

func (s *Server) handlePose(c *fiber.Ctx) error {
	return c.JSON(s.sink.Snapshot())
}

func (s *Server) handleCloseEyes(c *fiber.Ctx) error {
	if s.OnCloseEyes == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "override not wired"})
	}
	s.OnCloseEyes()
	return c.JSON(fiber.Map{"ok": true})
}
