// Package rest wires the chi router for the canvas API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"canvas-backend/application/services"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/infrastructure/config"
	"canvas-backend/interfaces/http/rest/handlers"
	"canvas-backend/interfaces/http/rest/middleware"
	"canvas-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	canvasSvc *services.CanvasService
	searchSvc *services.SearchService
	metrics   *observability.Collector
	config    *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	canvasSvc *services.CanvasService,
	searchSvc *services.SearchService,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		canvasSvc: canvasSvc,
		searchSvc: searchSvc,
		metrics:   metrics,
		config:    cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	if rt.config.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1/canvases/{canvasID}", func(r chi.Router) {
		graphHandler := handlers.NewGraphHandler(rt.canvasSvc, rt.logger)
		r.Get("/graph", graphHandler.GetGraph)
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", graphHandler.CreateNode)
			r.Get("/{nodeID}", graphHandler.GetNode)
			r.Delete("/{nodeID}", graphHandler.DeleteNode)
		})
		r.Route("/edges", func(r chi.Router) {
			r.Post("/", graphHandler.CreateEdge)
			r.Delete("/{edgeID}", graphHandler.DeleteEdge)
		})

		force := domainservices.DefaultForceConfig()
		force.Seed = rt.config.Layout.ForceSeed
		force.MinIterations = rt.config.Layout.ForceMinIterations
		force.MaxIterations = rt.config.Layout.ForceMaxIterations
		layoutHandler := handlers.NewLayoutHandler(rt.canvasSvc, rt.metrics, force, rt.logger)
		r.Route("/layout", func(r chi.Router) {
			r.Post("/place", layoutHandler.PlaceNode)
			r.Post("/grow", layoutHandler.GrowChildren)
			r.Post("/apply", layoutHandler.ApplyLayout)
			r.Post("/stack", layoutHandler.StackBranch)
		})

		searchHandler := handlers.NewSearchHandler(rt.searchSvc, rt.metrics, rt.logger)
		r.Post("/search", searchHandler.Search)

		snapshotHandler := handlers.NewSnapshotHandler(rt.canvasSvc, rt.metrics, rt.logger)
		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", snapshotHandler.Capture)
			r.Get("/", snapshotHandler.List)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
