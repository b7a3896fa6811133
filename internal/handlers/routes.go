package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/questforge/questforge-api/internal/auth"
)

type Handlers struct {
	Auth        *auth.AuthHandler
	Users       *UserHandler
	Teams       *TeamHandler
	Projects    *ProjectHandler
	Quests      *QuestHandler
	Rewards     *GamificationHandler
	Leaderboard *LeaderboardHandler
	Activity    *ActivityHandler
	APIKeys     *APIKeyHandler
}

func RegisterRoutes(r *chi.Mux, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("QuestForge API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth
	huma.Post(api, "/auth/register", h.Auth.HandleRegister)
	huma.Post(api, "/auth/login", h.Auth.HandleLogin)

	// Users
	huma.Get(api, "/users/{id}", h.Users.HandleGet)
	huma.Get(api, "/users/{id}/profile", h.Users.HandleProfile)

	// Teams
	huma.Get(api, "/teams", h.Teams.HandleList)
	huma.Get(api, "/teams/{id}", h.Teams.HandleGet)
	huma.Get(api, "/teams/{id}/members", h.Teams.HandleMembers)

	// Projects
	huma.Get(api, "/projects", h.Projects.HandleList)
	huma.Get(api, "/projects/{id}", h.Projects.HandleGet)

	// Quests
	huma.Get(api, "/quests", h.Quests.HandleList)
	huma.Get(api, "/quests/global", h.Quests.HandleListGlobal)
	huma.Get(api, "/quests/{id}", h.Quests.HandleGet)

	// Badges & achievements
	huma.Get(api, "/badges", h.Rewards.HandleListBadges)
	huma.Get(api, "/badges/{id}", h.Rewards.HandleGetBadge)
	huma.Get(api, "/users/{id}/badges", h.Rewards.HandleUserBadges)
	huma.Get(api, "/achievements", h.Rewards.HandleListAchievements)
	huma.Get(api, "/achievements/{id}", h.Rewards.HandleGetAchievement)
	huma.Get(api, "/users/{id}/achievements", h.Rewards.HandleUserAchievements)

	// Leaderboards
	huma.Get(api, "/leaderboards/global", h.Leaderboard.HandleGlobal)
	huma.Get(api, "/leaderboards/weekly", h.Leaderboard.HandleWeekly)
	huma.Get(api, "/leaderboards/monthly", h.Leaderboard.HandleMonthly)
	huma.Get(api, "/leaderboards/teams/{id}", h.Leaderboard.HandleTeam)
	huma.Get(api, "/leaderboards/projects/{id}", h.Leaderboard.HandleProject)

	// Activity feed
	huma.Get(api, "/activity", h.Activity.HandleList)

	// Protected routes: the middleware resolves the user from an X-API-KEY
	// header or the auth_token cookie and seeds auth.UserIDKey. Operations
	// register against the group router so the middleware applies; the
	// shared OpenAPI keeps them in the same document, with the doc routes
	// registered only once above.
	r.Group(func(gr chi.Router) {
		gr.Use(h.Auth.AuthMiddleware)

		securedConfig := config
		securedConfig.OpenAPIPath = ""
		securedConfig.DocsPath = ""
		securedConfig.SchemasPath = ""
		securedConfig.CreateHooks = nil
		securedAPI := humachi.New(gr, securedConfig)

		secured := func(o *huma.Operation) {
			o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
		}

		huma.Get(securedAPI, "/me", h.Auth.HandleMe, secured)
		huma.Patch(securedAPI, "/me", h.Users.HandleUpdateMe, secured)

		huma.Post(securedAPI, "/teams", h.Teams.HandleCreate, secured)
		huma.Post(securedAPI, "/teams/{id}/join", h.Teams.HandleJoin, secured)

		huma.Post(securedAPI, "/projects", h.Projects.HandleCreate, secured)
		huma.Put(securedAPI, "/projects/{id}", h.Projects.HandleUpdate, secured)
		huma.Post(securedAPI, "/projects/{id}/publish", h.Projects.HandlePublish, secured)

		huma.Post(securedAPI, "/quests", h.Quests.HandleCreate, secured)
		huma.Get(securedAPI, "/quests/my-completions", h.Quests.HandleMyCompletions, secured)
		huma.Put(securedAPI, "/quests/{id}", h.Quests.HandleUpdate, secured)
		huma.Post(securedAPI, "/quests/{id}/complete", h.Quests.HandleComplete, secured)
		huma.Get(securedAPI, "/quests/{id}/status", h.Quests.HandleStatus, secured)

		huma.Get(securedAPI, "/activity/me", h.Activity.HandleMine, secured)

		huma.Post(securedAPI, "/api-keys", h.APIKeys.HandleCreate, secured)
		huma.Get(securedAPI, "/api-keys", h.APIKeys.HandleList, secured)
		huma.Delete(securedAPI, "/api-keys/{id}", h.APIKeys.HandleDelete, secured)
	})
}
