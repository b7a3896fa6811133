package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/questforge/questforge-api/internal/activity"
	"github.com/questforge/questforge-api/internal/auth"
	"github.com/questforge/questforge-api/internal/config"
	"github.com/questforge/questforge-api/internal/database"
	"github.com/questforge/questforge-api/internal/gamification"
	"github.com/questforge/questforge-api/internal/handlers"
	"github.com/questforge/questforge-api/internal/jobs"
	"github.com/questforge/questforge-api/internal/notifier"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Discord notifier (optional)
	var discordNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			discordNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize core services
	activityRecorder := activity.NewRecorder(db)
	orchestrator := gamification.NewOrchestrator(db, activityRecorder, discordNotifier, gamification.DefaultAchievementPolicy())
	orchestrator.PublishXP = cfg.ProjectPublishXP

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db, activityRecorder)
	h := handlers.Handlers{
		Auth:        authHandler,
		Users:       handlers.NewUserHandler(db),
		Teams:       handlers.NewTeamHandler(db, orchestrator, activityRecorder),
		Projects:    handlers.NewProjectHandler(db, orchestrator, activityRecorder),
		Quests:      handlers.NewQuestHandler(db, orchestrator, activityRecorder),
		Rewards:     handlers.NewGamificationHandler(db),
		Leaderboard: handlers.NewLeaderboardHandler(db),
		Activity:    handlers.NewActivityHandler(activityRecorder),
		APIKeys:     handlers.NewAPIKeyHandler(db),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, h)

	// Start leaderboard snapshot job
	interval := time.Duration(cfg.LeaderboardIntervalMinutes) * time.Minute
	go jobs.RunLeaderboardJob(context.Background(), db, interval, cfg.LeaderboardLimit)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
