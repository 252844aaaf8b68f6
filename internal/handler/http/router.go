package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/salary-tracker/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	LogWriter      io.Writer
	// FilesDir is served read-only under /files when set.
	FilesDir string
}

type Handlers struct {
	Settings  SettingsHandler
	Employee  EmployeeHandler
	Dashboard DashboardHandler
	Events    EventsHandler
	Health    HealthHandler
}

// tokenFromQuery lets EventSource clients, which cannot set headers, pass the unlock token as ?token=.
func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, locks middleware.LockChecker, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stdout
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(opts.LogWriter, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.Check)
		r.Get("/settings", h.Settings.GetSettings)
		r.Post("/unlock", h.Settings.Unlock)

		// Requires an unlock token while a PIN is enabled
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, tokenFromQuery))
			r.Use(middleware.PinLock(locks, JWTService))

			r.Put("/settings/currency", h.Settings.UpdateCurrency)
			r.Post("/settings/pin", h.Settings.SetPin)
			r.Delete("/settings/pin", h.Settings.DisablePin)
			r.Delete("/data", h.Settings.ClearData)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetEmployee)
					r.Put("/", h.Employee.UpdateEmployee)
					r.Delete("/", h.Employee.DeleteEmployee)

					r.Route("/payments", func(r chi.Router) {
						r.Get("/", h.Employee.GetPaymentHistory)
						r.Post("/paid", h.Employee.MarkPaid)
						r.Post("/unpaid", h.Employee.MarkUnpaid)
						r.Post("/{month}/receipt", h.Employee.GenerateReceipt)
						r.Get("/{month}/receipt", h.Employee.DownloadReceipt)
					})
				})
			})

			r.Get("/dashboard", h.Dashboard.GetDashboard)
			r.Get("/events", h.Events.Stream)

			if opts.FilesDir != "" {
				files := http.StripPrefix("/api/v1/files/", http.FileServer(http.Dir(opts.FilesDir)))
				r.Get("/files/*", files.ServeHTTP)
			}
		})
	})
	return r
}
