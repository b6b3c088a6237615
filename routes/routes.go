package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/voglerhub/club-system/handlers"
	"github.com/voglerhub/club-system/middleware"
	"github.com/voglerhub/club-system/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Trainer      *handlers.TrainerHandler
	Team         *handlers.TeamHandler
	Player       *handlers.PlayerHandler
	Bill         *handlers.BillHandler
	TravelReport *handlers.TravelReportHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/users/signup", h.Auth.Signup)
	router.Post("/users/signin", h.Auth.Signin)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/me", h.User.Me)

		r.Route("/trainers", func(r chi.Router) {
			r.Get("/", h.Trainer.ListTrainers)
			r.Get("/{trainerID}", h.Trainer.GetTrainer)
			r.Post("/", h.Trainer.CreateTrainer)
			r.Put("/{trainerID}", h.Trainer.UpdateTrainer)
			r.Delete("/{trainerID}", h.Trainer.DeleteTrainer)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.ListTeams)
			r.Get("/{teamID}", h.Team.GetTeam)
			r.Post("/", h.Team.CreateTeam)
			r.Put("/{teamID}", h.Team.UpdateTeam)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
			r.Delete("/{teamID}", h.Team.DeleteTeam)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.ListPlayers)
			r.Get("/{playerID}", h.Player.GetPlayer)
			r.Post("/", h.Player.CreatePlayer)
			r.Put("/{playerID}", h.Player.UpdatePlayer)
			r.Delete("/{playerID}", h.Player.DeletePlayer)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", h.Bill.ListBills)
			r.Get("/{billID}", h.Bill.GetBill)
			r.Post("/", h.Bill.CreateBill)

			// Payment status changes are restricted to the board roles.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin, models.RoleKassenwart))
				r.Patch("/{billID}/status", h.Bill.UpdateBillStatus)
			})
		})

		r.Route("/travel-reports", func(r chi.Router) {
			r.Get("/", h.TravelReport.ListTravelReports)
			r.Get("/{reportID}", h.TravelReport.GetTravelReport)
			r.Post("/", h.TravelReport.CreateTravelReport)
			r.Delete("/{reportID}", h.TravelReport.DeleteTravelReport)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin, models.RoleKassenwart))
				r.Patch("/{reportID}/status", h.TravelReport.UpdateTravelReportStatus)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Get("/", h.User.ListUsers)
			r.Get("/{userID}", h.User.GetUser)
			r.Put("/{userID}", h.User.UpdateUser)
			r.Patch("/{userID}/role", h.User.UpdateUserRole)
			r.Delete("/{userID}", h.User.DeleteUser)
		})
	})

	return router
}
