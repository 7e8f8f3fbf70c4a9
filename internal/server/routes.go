package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aviranmz/thedude/internal/agent"
	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/handlers"
	"github.com/aviranmz/thedude/internal/middleware"
	"github.com/aviranmz/thedude/internal/redirect"
	"github.com/aviranmz/thedude/internal/search"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, registry *redirect.Registry, aggregator *search.Aggregator, planner *agent.Service) {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)
	s.App.Use(authMiddleware.RequireAuth)

	homeHandler := handlers.NewHomeHandler()
	probeHandler := handlers.NewProbeHandler(database)
	redirectHandler := handlers.NewRedirectHandler(registry, s.log)
	searchHandler := handlers.NewSearchHandler(aggregator, database, s.log)
	affiliateHandler := handlers.NewAffiliateHandler(database, s.log)

	// Public surface
	s.App.Get("/", homeHandler.Show)
	s.App.Get("/home.html", homeHandler.Show)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	s.App.Get("/r/:token", redirectHandler.Resolve)

	// Search API
	s.App.Get("/search/flights", searchHandler.Flights)
	s.App.Get("/search/hotels", searchHandler.Hotels)
	s.App.Get("/search/cars", searchHandler.Cars)
	s.App.Get("/search/insurance", searchHandler.Insurance)
	s.App.Get("/search/esim", searchHandler.ESIM)

	// Conversational planner
	if planner != nil {
		agentHandler := handlers.NewAgentHandler(planner, s.log)
		s.App.Post("/agent", agentHandler.Plan)
		s.App.Options("/agent", agentHandler.Preflight)
	}

	// Operator tooling
	s.App.Get("/admin/affiliates/:type", affiliateHandler.List)
	s.App.Post("/admin/affiliates", affiliateHandler.Create)
	s.App.Patch("/admin/affiliates/:type/:provider", affiliateHandler.SetEnabled)
}
