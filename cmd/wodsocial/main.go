// Command wodsocial is a small console front end over the client core:
// it signs in with a stored token, prints the feed, and shows the
// training calendar for today. Mostly useful for poking at a backend
// without a phone in hand.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wodsocial/wodsocial-go/internal/api"
	"github.com/wodsocial/wodsocial-go/internal/bus"
	"github.com/wodsocial/wodsocial-go/internal/cache"
	"github.com/wodsocial/wodsocial-go/internal/config"
	"github.com/wodsocial/wodsocial-go/internal/service"
	"github.com/wodsocial/wodsocial-go/internal/timeutil"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting wodsocial client", "api", cfg.API.BaseURL)

	store, err := cache.OpenBadger(cfg.Cache.Path)
	if err != nil {
		log.Error("Failed to open cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if token := os.Getenv("WODSOCIAL_TOKEN"); token != "" {
		if err := store.Set(ctx, cache.KeyAuthToken, token); err != nil {
			log.Error("Failed to store token", "error", err)
			os.Exit(1)
		}
	}

	client := api.New(cfg.API, store, log)
	events := bus.New(log)

	feed := service.NewFeedService(client, events, store, log)
	defer feed.Close()

	if err := feed.Refresh(ctx); err != nil {
		log.Error("Feed refresh failed", "error", err)
		os.Exit(1)
	}

	state := feed.State()
	fmt.Printf("Feed: %d posts (more: %v)\n\n", len(state.Posts), state.HasMore)
	for _, p := range state.Posts {
		kind := "post"
		if p.IsWorkout() {
			kind = "wod"
		}
		nick := "?"
		if p.Author != nil {
			nick = p.Author.Nick
		}
		fmt.Printf("  #%-6d %-4s @%-15s likes=%-4d comments=%-4d %s\n",
			p.ID, kind, nick, p.LikeCount, p.CommentCount, firstLine(p.NoteText))
	}

	today := timeutil.DayKey(time.Now())
	own := feed.WorkoutsOn(today)
	fmt.Printf("\nYour workouts today (%s): %d\n", today, len(own))
	for _, p := range own {
		title := "WOD"
		if p.Workout != nil {
			title = p.Workout.Title()
		}
		line := title
		if p.HasAchievedTime {
			line += " in " + p.AchievedSecondsFmt
		}
		fmt.Printf("  #%-6d %s\n", p.ID, line)
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	runes := []rune(s)
	if len(runes) > 60 {
		return string(runes[:60]) + "..."
	}
	return s
}
