package handlers

import (
	"log/slog"

	"overtime-approval/middleware"
	"overtime-approval/models"
	"overtime-approval/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig, svc *services.Services, session *middleware.Session) *chi.Mux {
	authHandler := NewAuthHandler(svc.Session, session)
	overtimeHandler := NewOvertimeHandler(svc.Overtime)
	approvalHandler := NewApprovalHandler(svc.Overtime)
	adminHandler := NewAdminHandler(svc.Admin)
	reportHandler := NewReportHandler(svc.Report)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chimiddleware.CleanPath)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(session.Authenticate).Get("/me", authHandler.Me)
		})

		// Requires a session
		r.Group(func(r chi.Router) {
			r.Use(session.Authenticate)

			r.Get("/categories", overtimeHandler.ActiveCategories)

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/duration", overtimeHandler.Duration)
				r.Post("/", overtimeHandler.Submit)
				r.Get("/my", overtimeHandler.My)
				r.Get("/{id}", overtimeHandler.Get)
			})

			r.Route("/approvals", func(r chi.Router) {
				r.Get("/", approvalHandler.Inbox)
				r.Post("/{id}/approve", approvalHandler.Approve)
				r.Post("/{id}/reject", approvalHandler.Reject)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleLeader, models.RoleManager, models.RoleAdmin))
				r.Get("/monitoring/summary", reportHandler.Summary)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleManager, models.RoleAdmin))
				r.Get("/reports/overtime.csv", reportHandler.ExportCSV)
				r.Get("/reports/overtime.xlsx", reportHandler.ExportXLSX)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Route("/profiles", func(r chi.Router) {
					r.Get("/", adminHandler.ListProfiles)
					r.Post("/", adminHandler.CreateProfile)
					r.Put("/{id}", adminHandler.UpdateProfile)
					r.Delete("/{id}", adminHandler.DeleteProfile)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", adminHandler.ListCategories)
					r.Post("/", adminHandler.CreateCategory)
					r.Put("/{id}", adminHandler.UpdateCategory)
				})
			})
		})
	})

	return r
}
