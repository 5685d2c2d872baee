package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/aegisops/guardops/internal/armory"
	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
	"github.com/aegisops/guardops/internal/fleet"
	"github.com/aegisops/guardops/internal/guard"
	"github.com/aegisops/guardops/internal/merit"
	"github.com/aegisops/guardops/internal/mission"
	"github.com/aegisops/guardops/internal/notification"
	"github.com/aegisops/guardops/internal/replacement"
	"github.com/aegisops/guardops/internal/shift"
	"github.com/aegisops/guardops/internal/transport/middleware"
	"github.com/aegisops/guardops/internal/transport/swagger"
)

// Handlers bundles every domain handler the router mounts.
type Handlers struct {
	Guard        *guard.Handler
	Armory       *armory.Handler
	Fleet        *fleet.Handler
	Shift        *shift.Handler
	Replacement  *replacement.Handler
	Mission      *mission.Handler
	Merit        *merit.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, jwtSecret string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Auth(jwtSecret))

			pr.Route("/guards", func(gr chi.Router) {
				gr.Get("/{id}", h.Guard.GetGuard)
				gr.Get("/{id}/availability", h.Guard.GetAvailability)
				gr.Put("/{id}/availability", h.Guard.SetAvailability)
			})

			pr.Route("/armory", func(ar chi.Router) {
				ar.Get("/allocations", h.Armory.ListAllocations)
				ar.Get("/allocations/overdue", h.Armory.OverdueAllocations)
				ar.Get("/allocations/guard/{guardID}", h.Armory.GuardAllocations)
				ar.Post("/allocations", h.Armory.IssueFirearm)
				ar.Patch("/allocations/{id}/return", h.Armory.ReturnFirearm)
			})

			pr.Route("/fleet", func(fr chi.Router) {
				fr.Get("/vehicles/available", h.Fleet.AvailableVehicles)
				fr.Get("/vehicles/{id}", h.Fleet.GetVehicle)
				fr.Get("/allocations", h.Fleet.ActiveCarAllocations)
				fr.Post("/allocations", h.Fleet.AllocateCar)
				fr.Patch("/allocations/{id}/return", h.Fleet.ReturnCar)
				fr.Get("/trips", h.Fleet.ActiveTrips)
				fr.Post("/trips", h.Fleet.CreateTrip)
				fr.Get("/trips/{id}", h.Fleet.GetTrip)
				fr.Patch("/trips/{id}/complete", h.Fleet.CompleteTrip)
			})

			pr.Route("/shifts", func(sr chi.Router) {
				sr.Post("/", h.Shift.CreateShift)
				sr.Get("/{id}", h.Shift.GetShift)
				sr.Patch("/{id}", h.Shift.UpdateShift)
				sr.Delete("/{id}", h.Shift.DeleteShift)
				sr.Patch("/{id}/start", h.Shift.StartShift)
				sr.Patch("/{id}/complete", h.Shift.CompleteShift)
				sr.Get("/guard/{guardID}", h.Shift.GuardShifts)
			})

			pr.Route("/attendance", func(ar chi.Router) {
				ar.Post("/check-in", h.Shift.CheckIn)
				ar.Patch("/{id}/check-out", h.Shift.CheckOut)
				ar.Get("/guard/{guardID}", h.Shift.GuardAttendance)
			})

			pr.Route("/replacements", func(rr chi.Router) {
				rr.Post("/accept", h.Replacement.AcceptReplacement)

				rr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireRole(guardmodel.RoleAdmin))
					ar.Post("/detect", h.Replacement.DetectNoShows)
					ar.Post("/request", h.Replacement.RequestReplacement)
				})
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(middleware.RequireRole(guardmodel.RoleAdmin))
				mr.Route("/missions", func(msr chi.Router) {
					msr.Post("/", h.Mission.AssignMission)
					msr.Get("/", h.Mission.Missions)
					msr.Get("/{id}", h.Mission.GetMission)
				})
			})

			pr.Route("/merit", func(mr chi.Router) {
				mr.Post("/scores/{guardID}/calculate", h.Merit.CalculateMeritScore)
				mr.Get("/scores/{guardID}", h.Merit.GetMeritScore)
				mr.Get("/rankings", h.Merit.RankedGuards)
				mr.Get("/overtime-candidates", h.Merit.OvertimeCandidates)
				mr.Post("/evaluations", h.Merit.SubmitEvaluation)
				mr.Get("/evaluations/guard/{guardID}", h.Merit.GuardEvaluations)
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/user/{userID}", h.Notification.UserNotifications)
				nr.Get("/user/{userID}/unread-count", h.Notification.UnreadCount)
				nr.Patch("/user/{userID}/read-all", h.Notification.MarkAllRead)
				nr.Patch("/user/{userID}/{id}/read", h.Notification.MarkRead)
			})
		})
	})
}
