// Package server exposes a furnish engine over HTTP with fiber.
//
// Every request runs under one mutex, as does the update loop started by
// Run, so the engine is only ever touched by one goroutine at a time.
package server

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/phanxgames/furnish"
)

// Options configure a Server.
type Options struct {
	// ServerName is reported as the fiber app name.
	ServerName string
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// Server is the HTTP control surface of one engine.
type Server struct {
	mu  sync.Mutex
	eng *furnish.Engine
	app *fiber.App
}

// New builds the fiber app and registers every route.
func New(eng *furnish.Engine, opts Options) *Server {
	if opts.ServerName == "" {
		opts.ServerName = "furnishd"
	}
	s := &Server{
		eng: eng,
		app: fiber.New(fiber.Config{
			AppName:      opts.ServerName,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}),
	}
	s.app.Use(recover.New())
	if opts.AccessLog {
		s.app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves HTTP on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Do runs fn with exclusive access to the engine.
func (s *Server) Do(fn func(e *furnish.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// Run advances the engine clock rate times per second until ctx is done.
func (s *Server) Run(ctx context.Context, rate int) {
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Do(func(e *furnish.Engine) { e.Update(dt) })
		}
	}
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api/v1")
	api.Get("/scene", s.getScene)
	api.Get("/catalog", s.getCatalog)

	api.Get("/furniture", s.listFurniture)
	api.Post("/furniture", s.addFurniture)
	api.Post("/furniture/proposed", s.addProposed)
	api.Get("/furniture/:id", s.getFurniture)
	api.Delete("/furniture/:id", s.removeFurniture)
	api.Post("/furniture/:id/duplicate", s.duplicateFurniture)
	api.Post("/furniture/:id/rotate", s.rotateFurniture)
	api.Post("/furniture/:id/edit", s.openEditor)
	api.Post("/furniture/:id/edit-badge", s.pressEditBadge)
	api.Put("/furniture/:id/color", s.setColor)
	api.Put("/furniture/:id/size", s.setSize)
	api.Put("/furniture/:id/position", s.setPosition)
	api.Put("/furniture/:id/edit-visible", s.setEditVisible)

	api.Get("/room", s.getRoom)
	api.Put("/room", s.setRoom)

	api.Get("/selection", s.getSelection)
	api.Post("/selection/menu/toggle", s.toggleMenu)
	api.Put("/selection/accordion", s.setAccordion)
	api.Post("/selection/dismiss", s.dismiss)

	api.Post("/dialogs/close", s.closeDialog)
	api.Post("/dialogs/:name/open", s.openDialog)

	api.Get("/preferences", s.getPreferences)
	api.Put("/preferences", s.setPreferences)
}
