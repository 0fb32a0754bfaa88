package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/match-score/handlers"
	"github.com/Dosada05/match-score/middleware"
	"github.com/Dosada05/match-score/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Matchup    *handlers.MatchupHandler
	Player     *handlers.PlayerHandler
	Team       *handlers.TeamHandler
	User       *handlers.UserHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// Logger попадает в контекст каждого запроса; nil означает slog.Default.
	Logger *slog.Logger
}

func SetupRoutes(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health.Health)

	router.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))

			r.Get("/me", h.User.Me)

			r.With(middleware.Authorize(models.RoleAdmin, models.RoleDirector)).
				Put("/{userID}/promote", h.User.PromoteToDirector)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin))

				r.Get("/", h.User.ListUsers)
				r.Delete("/{userID}", h.User.DeleteUser)
			})
		})
	})

	router.Get("/matchups/{matchupID}", h.Matchup.GetMatchup)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.ListPlayers)
		r.Get("/{playerID}", h.Player.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleDirector))

			r.Post("/", h.Player.CreatePlayer)
			r.Delete("/{playerID}", h.Player.DeletePlayer)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.ListTeams)
		r.Get("/{teamID}", h.Team.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleDirector))

			r.Post("/", h.Team.CreateTeam)
			r.Delete("/{teamID}", h.Team.DeleteTeam)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/", h.Tournament.ListTournaments)
		r.Get("/{tournamentID}", h.Tournament.GetTournament)
		r.Get("/{tournamentID}/matchups", h.Matchup.ListByTournament)

		// Защищенные маршруты только для администраторов и директоров
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleDirector))

			r.Post("/knockout", h.Tournament.CreateKnockout)
			r.Post("/league", h.Tournament.CreateLeague)
			r.Put("/knockout/matchups/{matchupID}/score", h.Matchup.RecordKnockoutScore)
			r.Put("/league/matchups/{matchupID}/score", h.Matchup.RecordLeagueScore)
			r.Put("/{tournamentID}/winner", h.Tournament.SetWinner)
		})
	})

	return router
}
