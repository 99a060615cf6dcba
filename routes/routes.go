package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lamasia-league/handlers"
	"github.com/Dosada05/lamasia-league/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP handler mounted by SetupRoutes.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Me           *handlers.MeHandler
	Team         *handlers.TeamHandler
	Player       *handlers.PlayerHandler
	Round        *handlers.RoundHandler
	Match        *handlers.MatchHandler
	Standings    *handlers.StandingsHandler
	User         *handlers.UserHandler
	Notification *handlers.NotificationHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Sessions       middleware.SessionBinder
	Logger         *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Sessions, opts.Logger)

	// WebSocket передаёт токен в ?token=
	router.With(authenticate).Get("/ws", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/auth/logout", h.Auth.Logout)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.Me.GetProfile)
			r.Get("/view", h.Me.GetView)
			r.Put("/view", h.Me.SetView)
			r.Post("/view/team/{teamID}", h.Me.SelectTeam)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.ListTeams)
			r.Post("/", h.Team.CreateTeam)
			r.Route("/{teamID}", func(r chi.Router) {
				r.Delete("/", h.Team.DeleteTeam)
				r.Get("/players", h.Team.ListPlayers)
				r.Get("/career", h.Team.GetCareer)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.Post("/", h.Player.AddPlayer)
			r.Delete("/{playerID}", h.Player.RemovePlayer)
		})

		r.Route("/rounds", func(r chi.Router) {
			r.Get("/", h.Round.ListRounds)
			r.Post("/", h.Round.CreateRound)
			r.Post("/fixture", h.Round.GenerateFixture)
			r.Delete("/{roundID}", h.Round.DeleteRound)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.ListMatches)
			r.Post("/", h.Match.CreateMatch)
			r.Delete("/{matchID}", h.Match.DeleteMatch)
			r.Put("/{matchID}/result", h.Match.UpdateResult)
		})

		r.Route("/standings", func(r chi.Router) {
			r.Get("/", h.Standings.GetTable)
			r.Get("/scorers", h.Standings.GetScorers)
			r.Get("/mvps", h.Standings.GetMVPs)
			r.Post("/publish", h.Standings.Publish)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.User.ListUsers)
			r.Put("/{userID}/role", h.User.UpdateRole)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.ListNotifications)
			r.Post("/", h.Notification.SendNotification)
			r.Post("/{notificationID}/read", h.Notification.MarkRead)
		})
	})
}
