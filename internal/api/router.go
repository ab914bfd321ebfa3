package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/instrument-shop/internal/api/middleware"
	"github.com/example/instrument-shop/internal/auth"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/example/instrument-shop/internal/session"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handlers      *Handlers
	Tokens        *auth.TokenService
	Sessions      *session.Registry
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
	SecureCookies bool
	WebDir        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	handlers := cfg.Handlers
	withSession := middleware.Session(cfg.Tokens, cfg.Sessions, cfg.SecureCookies, cfg.Logger)

	// Static files (web UI)
	if cfg.WebDir != "" {
		fs := http.FileServer(http.Dir(cfg.WebDir))
		mux.Handle("/", fs)
	}

	mux.HandleFunc("/health", Health)
	mux.Handle("/metrics", cfg.Metrics.Handler())

	// Products
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProducts(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		if r.URL.Path == "/products/popular" {
			handlers.GetPopularProducts(w, r)
			return
		}
		handlers.GetProduct(w, r)
	})

	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCategories(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Cart
	mux.Handle("/cart", withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/cart/items", withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AddToCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/cart/items/", withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			handlers.UpdateQuantity(w, r)
		case http.MethodDelete:
			handlers.RemoveFromCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/cart/checkout", withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.Checkout(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	return withLogging(cfg.Logger, cfg.Metrics, mux)
}

// NewProjectionRouter serves the popularity read model and metrics for
// the standalone projector.
func NewProjectionRouter(handlers *Handlers, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", Health)
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/products/popular", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetPopularProducts(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	return withLogging(logger, m, mux)
}

func methodNotAllowed(w http.ResponseWriter) {
	respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(logger *zap.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	logger = logger.Named("api")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		m.Requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		m.LatencyMS.WithLabelValues(r.Method).Observe(float64(elapsed.Microseconds()) / 1000)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed))
	})
}
