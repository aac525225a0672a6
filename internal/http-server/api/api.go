package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/card"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/checkin"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/errors"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/events"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/guests"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/scans"
	"github.com/BariVakhidov/guestlist/internal/http-server/middleware/admin"
	"github.com/BariVakhidov/guestlist/internal/http-server/middleware/authenticate"
	"github.com/BariVakhidov/guestlist/internal/http-server/middleware/timeout"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

type GuestList interface {
	card.Core
	events.Core
	guests.Core
}

type Services struct {
	Auth    authenticate.Authenticate
	Guests  GuestList
	CheckIn checkin.Core
	// Scans is nil when the scan log is disabled.
	Scans scans.Core
}

type Server struct {
	conf       config.HTTPConfig
	httpServer *http.Server
	log        *slog.Logger
}

func New(conf config.HTTPConfig, log *slog.Logger, services Services) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(conf.Timeout))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/card/{token}", card.Card(log, services.Guests))
	router.Get("/card/{token}/qr.png", card.QR(log, services.Guests))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Use(authenticate.New(log, services.Auth))

		rootApi.Post("/checkin", checkin.Resolve(log, services.CheckIn))
		rootApi.Get("/events/{id}/stats", events.Stats(log, services.Guests))

		rootApi.Group(func(adm chi.Router) {
			adm.Use(admin.RequireAdmin)

			adm.Post("/events", events.Create(log, services.Guests))
			adm.Get("/events/{id}", events.Get(log, services.Guests))
			adm.Post("/events/{id}/guests", guests.Add(log, services.Guests))
			adm.Get("/events/{id}/guests", guests.List(log, services.Guests))
			adm.Post("/events/{id}/guests/import", guests.Import(log, services.Guests))
			adm.Get("/events/{id}/guests/export", guests.Export(log, services.Guests))
			adm.Patch("/guests/{id}", guests.Update(log, services.Guests))
			adm.Delete("/guests/{id}", guests.Delete(log, services.Guests))
			adm.Get("/scans", scans.List(log, services.Scans))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.BindIP, s.conf.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	return s.httpServer.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("stopping api server")

	return s.httpServer.Shutdown(ctx)
}
