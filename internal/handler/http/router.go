package http

import (
	"log/slog"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Finance    FinanceHandler
	Dashboard  DashboardHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "Content-Language"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Locale)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/auth", func(r chi.Router) {
				r.Get("/profile", h.Auth.Profile)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin))
					r.Post("/register", h.Auth.Register)
					r.Get("/users", h.Auth.ListUsers)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/checkin", h.Attendance.CheckIn)
				r.Post("/checkout/{recordId}", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.History)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin))
					r.Get("/all", h.Attendance.ListAll)
					r.Delete("/reset/{userId}", h.Attendance.Reset)
					r.Get("/export", h.Attendance.Export)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", h.Leave.Submit)
				r.Get("/", h.Leave.ListMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin))
					r.Get("/all", h.Leave.ListAll)
					r.Put("/{id}", h.Leave.UpdateStatus)
				})
			})

			r.Route("/finance", func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleAdmin))
				r.Post("/", h.Finance.Create)
				r.Get("/", h.Finance.List)
				r.Put("/{id}", h.Finance.Update)
				r.Delete("/{id}", h.Finance.Delete)
			})

			r.Get("/dashboard/stats", h.Dashboard.Stats)
		})
	})
	return r
}
