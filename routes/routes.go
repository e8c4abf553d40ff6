package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
)

// SetupRoutes wires every handler onto the router. Write operations sit
// behind JWT auth; schedule management requires the admin role.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	seasonHandler *handlers.SeasonHandler,
	matchHandler *handlers.MatchHandler,
	clubHandler *handlers.ClubHandler,
	statsHandler *handlers.StatsHandler,
	predictionHandler *handlers.PredictionHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", seasonHandler.ListCompetitions)
		r.Get("/{competitionID}/seasons", seasonHandler.ListSeasons)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", seasonHandler.CreateCompetition)
		})
	})

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/{seasonID}", seasonHandler.GetSeason)
		r.Get("/{seasonID}/overview", seasonHandler.GetSeasonOverview)
		r.Get("/{seasonID}/matches", matchHandler.ListSeasonMatches)
		r.Get("/{seasonID}/standings", statsHandler.ListStandings)
		r.Get("/{seasonID}/player-stats", statsHandler.ListPlayerSeasonStats)
		r.Get("/{seasonID}/disqualifications", statsHandler.ListDisqualifications)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", seasonHandler.CreateSeason)
			r.Post("/{seasonID}/playoffs", seasonHandler.CreatePlayoffs)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatch)
		r.Get("/{matchID}/events", matchHandler.ListMatchEvents)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{matchID}/predictions", predictionHandler.CreatePrediction)
		})
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/{matchID}/result", matchHandler.SubmitResult)
			r.Patch("/{matchID}/status", matchHandler.SetStatus)
		})
	})

	router.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.ListClubs)
		r.Get("/{clubID}", clubHandler.GetClub)
		r.Get("/{clubID}/players", clubHandler.ListRoster)
		r.Get("/{clubID}/career-stats", statsHandler.ListPlayerCareerStats)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", clubHandler.CreateClub)
			r.Post("/{clubID}/players", clubHandler.CreatePlayer)
			r.Put("/{clubID}/crest", clubHandler.UploadCrest)
		})
	})

	router.Route("/me", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/predictions", predictionHandler.ListMyPredictions)
		r.Get("/achievements", predictionHandler.ListMyAchievements)
	})

	router.Get("/ws/seasons/{seasonID}", wsHandler.ServeSeason)
}
