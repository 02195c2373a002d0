package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/product-service/api-contract"
	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/internal/auth"
	"github.com/tuanvumaihuynh/product-service/internal/config"
	"github.com/tuanvumaihuynh/product-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-service/internal/http/metric"
	"github.com/tuanvumaihuynh/product-service/internal/http/middleware"
	"github.com/tuanvumaihuynh/product-service/internal/http/swagger"
	"github.com/tuanvumaihuynh/product-service/internal/service"
	"github.com/tuanvumaihuynh/product-service/internal/storage/db"
)

const healthPath = "/healthz"

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics
	resolver auth.Resolver
	checks   map[string]db.HealthChecker

	productSvc service.ProductService
}

type CleanupFunc func(ctx context.Context) error

// New creates the HTTP service. checks are probed by the health endpoint,
// keyed by the name reported when one fails.
func New(
	cfg config.HTTP,
	log *slog.Logger,
	registry *prometheus.Registry,
	resolver auth.Resolver,
	productSvc service.ProductService,
	checks map[string]db.HealthChecker,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		registry:   registry,
		metrics:    metric.New(registry),
		resolver:   resolver,
		checks:     checks,
		productSvc: productSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.ValidateRequests || s.cfg.Swagger {
		doc, err := apicontract.Load(ctx)
		if err != nil {
			return nil, err
		}

		if s.cfg.ValidateRequests {
			validate, err := middleware.OpenAPIValidator(doc, s.handleResponseError)
			if err != nil {
				return nil, err
			}
			r.Use(validate)
		}

		if s.cfg.Swagger {
			if err := swagger.Register(r, doc); err != nil {
				return nil, err
			}
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	h := newProductHandler(s.productSvc)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.handle(h.ListProducts))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Authenticate(s.resolver, s.handleResponseError),
				middleware.RequireSeller(s.handleResponseError),
			)

			r.Post("/", s.handle(h.CreateProduct))
			r.Get("/my-products", s.handle(h.ListMyProducts))
			r.Put("/{id}", s.handle(h.UpdateProduct))
			r.Delete("/{id}", s.handle(h.DeleteProduct))
		})

		r.Get("/{id}", s.handle(h.GetProduct))
	})

	r.Get(healthPath, s.handle(s.health))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// response is a successful handler outcome written inside the envelope.
type response struct {
	status  int
	message string
	data    any
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type handlerFunc func(r *http.Request) (response, error)

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if err != nil {
			s.handleResponseError(w, r, err)
			return
		}

		s.writeJSON(w, r, res.status, envelope{
			Success: true,
			Message: res.message,
			Data:    res.data,
		})
	}
}

func (s *Service) health(r *http.Request) (response, error) {
	status := make(map[string]string, len(s.checks))
	for name, c := range s.checks {
		ok, err := c.IsHealthy(r.Context())
		if err != nil || !ok {
			s.logger.WarnContext(r.Context(), "health check failed",
				slog.String("component", name),
				slog.Any("error", err),
			)
			return response{}, apperr.StoreUnavailableErr.WithMsg(name + " is unavailable")
		}
		status[name] = "up"
	}

	return response{status: http.StatusOK, message: "ok", data: status}, nil
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.writeJSON(w, r, res.StatusCode, res)
}
