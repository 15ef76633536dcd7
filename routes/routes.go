package routes

import (
	"github.com/Veldrin92/commander-tracker/handlers"
	"github.com/Veldrin92/commander-tracker/middleware"
	"github.com/Veldrin92/commander-tracker/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes монтирует все маршруты приложения.
// Чтение открыто всем, мутации требуют аутентификации.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	playerHandler *handlers.PlayerHandler,
	commanderHandler *handlers.CommanderHandler,
	statsHandler *handlers.StatsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/signup", authHandler.SignUpHandler)
	router.Post("/auth/signin", authHandler.SignInHandler)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/active", tournamentHandler.GetActiveHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/standings", tournamentHandler.StandingsHandler)

		// Защищенные маршруты
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", tournamentHandler.StartHandler)
			r.Post("/{tournamentID}/advance", tournamentHandler.AdvanceRoundHandler)
			r.Post("/{tournamentID}/finish", tournamentHandler.FinishHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListHandler)
		r.Get("/{matchID}", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", matchHandler.RecordHandler)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListHandler)
		r.Get("/{playerID}", playerHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", playerHandler.CreateHandler)
			r.Put("/{playerID}", playerHandler.UpdateHandler)
			r.Post("/{playerID}/avatar", playerHandler.UploadAvatarHandler)

			// Удаление из каталога только для администраторов
			r.With(auth.Authorize(models.RoleAdmin)).Delete("/{playerID}", playerHandler.DeleteHandler)
		})
	})

	router.Route("/commanders", func(r chi.Router) {
		r.Get("/", commanderHandler.ListHandler)
		r.Get("/{commanderID}", commanderHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", commanderHandler.CreateHandler)
			r.Put("/{commanderID}", commanderHandler.UpdateHandler)
			r.Post("/{commanderID}/image", commanderHandler.UploadImageHandler)

			r.With(auth.Authorize(models.RoleAdmin)).Delete("/{commanderID}", commanderHandler.DeleteHandler)
		})
	})

	router.Get("/stats/dashboard", statsHandler.DashboardHandler)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
