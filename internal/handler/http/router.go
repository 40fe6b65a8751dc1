package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string

	// JWTAuth enables write protection when non-nil.
	JWTAuth *jwtauth.JWTAuth

	// Logger overrides the JSON stdout request logger.
	Logger *slog.Logger
}

func NewRouter(cfg RouterConfig, employeeHandler EmployeeHandler, payrollHandler PayrollHandler, healthHandler HealthHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logFormat := httplog.SchemaECS.Concise(false)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       cfg.LogLevel,
			ReplaceAttr: logFormat.ReplaceAttr,
		})).With(
			slog.String("app", cfg.AppName),
			slog.String("version", cfg.Version),
			slog.String("env", cfg.Env),
		)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader},
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.StripSlashes)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			if cfg.JWTAuth != nil {
				r.Use(jwtauth.Verifier(cfg.JWTAuth))
				r.Use(middleware.ProtectWrites(middleware.AuthRequired))
			}

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.GetEmployee)
					r.Put("/", employeeHandler.UpdateEmployee)
					r.Patch("/", employeeHandler.UpdateEmployee)
					r.Delete("/", employeeHandler.DeleteEmployee)
				})
			})

			r.Post("/calculate-payroll", payrollHandler.CalculatePayroll)

			r.Route("/payroll-history", func(r chi.Router) {
				r.Get("/", payrollHandler.ListHistory)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRecord)
					r.Delete("/", payrollHandler.DeleteRecord)
				})
			})

			r.Get("/tax-brackets", payrollHandler.GetTaxBrackets)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed.", nil)
	})

	return r
}
