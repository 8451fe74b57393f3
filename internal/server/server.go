package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aldwake/PetGrotto_Go/internal/catalog"
	"github.com/aldwake/PetGrotto_Go/internal/game"
	"github.com/aldwake/PetGrotto_Go/internal/handler"
	"github.com/aldwake/PetGrotto_Go/internal/inventory"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/metrics"
	"github.com/aldwake/PetGrotto_Go/internal/notification"
	"github.com/aldwake/PetGrotto_Go/internal/outdoor"
	"github.com/aldwake/PetGrotto_Go/internal/pet"
	"github.com/aldwake/PetGrotto_Go/internal/save"
	"github.com/aldwake/PetGrotto_Go/internal/synthesis"
)

// Services bundles everything the router needs
type Services struct {
	Catalog       *catalog.Catalog
	Ledger        *inventory.Ledger
	Pets          *pet.Collection
	Game          *game.Service
	Synthesis     *synthesis.Engine
	Outdoor       *outdoor.Resolver
	Saves         *save.Service
	Notifications *notification.Service
	Hub           *notification.Hub
	HealthChecker handler.HealthChecker
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(port int, trustedProxies []string, svcs Services) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost first
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svcs.HealthChecker))

	// Version endpoint for deployment verification
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint for Prometheus scraping
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/game", handler.HandleGetGame(svcs.Game))
		r.Post("/game/new", handler.HandleNewGame(svcs.Game))

		petHandler := handler.NewPetHandler(svcs.Game, svcs.Pets, svcs.Catalog)
		r.Route("/pet", func(r chi.Router) {
			r.Get("/", petHandler.HandleGetPet)
			r.Post("/feed", petHandler.HandleFeedPet)
			r.Post("/activate-item", petHandler.HandleActivateItem)
			r.Post("/revive", petHandler.HandleRevivePet)
			r.Post("/set-active", petHandler.HandleSetActivePet)
		})
		r.Get("/collection", petHandler.HandleGetCollection)

		r.Get("/inventory", handler.HandleGetInventory(svcs.Ledger, svcs.Catalog))

		r.Route("/shop", func(r chi.Router) {
			r.Get("/", handler.HandleGetShop(svcs.Catalog))
			r.Post("/buy", handler.HandleBuyItem(svcs.Game))
		})

		synthesisHandler := handler.NewSynthesisHandler(svcs.Synthesis, svcs.Catalog)
		r.Route("/synthesis", func(r chi.Router) {
			r.Get("/recipes", synthesisHandler.HandleGetRecipes)
			r.Get("/status", synthesisHandler.HandleGetStatus)
			r.Post("/select", synthesisHandler.HandleSelectRecipe)
			r.Post("/stage-fragments", synthesisHandler.HandleStageFragments)
			r.Post("/unstage-fragments", synthesisHandler.HandleUnstageFragments)
			r.Post("/stage-potion", synthesisHandler.HandleStagePotion)
			r.Post("/unstage-potion", synthesisHandler.HandleUnstagePotion)
			r.Post("/auto-fill", synthesisHandler.HandleAutoFill)
			r.Post("/clear", synthesisHandler.HandleClearSlots)
			r.Post("/start", synthesisHandler.HandleStart)
			r.Get("/result", synthesisHandler.HandleGetResult)
			r.Post("/close-result", synthesisHandler.HandleCloseResult)
			r.Post("/reset", synthesisHandler.HandleReset)
		})

		outdoorHandler := handler.NewOutdoorHandler(svcs.Outdoor)
		r.Route("/outdoor", func(r chi.Router) {
			r.Get("/state", outdoorHandler.HandleGetState)
			r.Post("/send-play", outdoorHandler.HandleSendToPlay)
			r.Post("/send-hunt", outdoorHandler.HandleSendToHunt)
			r.Post("/recall", outdoorHandler.HandleRecall)
		})

		saveHandler := handler.NewSaveHandler(svcs.Saves)
		r.Route("/saves", func(r chi.Router) {
			r.Get("/", saveHandler.HandleListSlots)
			r.Route("/{slot}", func(r chi.Router) {
				r.Post("/", saveHandler.HandleSaveSlot)
				r.Post("/load", saveHandler.HandleLoadSlot)
				r.Delete("/", saveHandler.HandleDeleteSlot)
				r.Get("/export", saveHandler.HandleExportSlot)
				r.Post("/import", saveHandler.HandleImportSlot)
			})
		})

		r.Get("/notifications", handler.HandleGetNotifications(svcs.Notifications))
		r.Get("/notifications/stream", notification.Handler(svcs.Hub))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush forwards flushes so the SSE stream is not buffered away.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
