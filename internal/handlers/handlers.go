package handlers

import (
	"Wishwall/internal/config"
	"Wishwall/internal/metrics"
	"Wishwall/internal/middleware"
	"Wishwall/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	wishService *service.WishService,
	collector *metrics.Collector,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics(collector))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Handlers
	wishHandler := NewWishHandler(wishService, logger)

	r.Get("/health", Health)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	// Wishes routes
	r.Route("/api/wishes", func(r chi.Router) {
		r.Get("/", wishHandler.List)
		r.Post("/", wishHandler.Create)
		r.Put("/", wishHandler.Reply)
		r.Delete("/", wishHandler.Remove)
		r.Get("/{id}", wishHandler.Get)
	})

	return &Handler{Router: r}
}

// Health — проверка живости
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
