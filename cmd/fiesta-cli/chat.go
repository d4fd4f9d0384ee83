package main

import (
	"context"
	"flag"
	"io"
	"strings"
	"time"

	"fiesta-cli/internal/archive"
	"fiesta-cli/internal/assistant"
	"fiesta-cli/internal/chat"
	"fiesta-cli/internal/config"
	"fiesta-cli/internal/planner"
	"fiesta-cli/internal/tui"
)

func chatMain(root rootArgs, args []string) {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var topic string
	var offline bool
	fs.StringVar(&topic, "topic", "", "Initial topic (venue, timeline, budget ...)")
	fs.BoolVar(&offline, "offline", false, "Run with the scripted assistant (no network)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse chat args: %v", err)
	}

	cfg := loadConfig(root)

	client, event := connectPlanner(cfg)

	var streamer chat.Streamer
	store := mustArchive()
	if offline {
		streamer = &assistant.Scripted{Delay: 30 * time.Millisecond}
	} else {
		ai, err := assistant.New(assistant.Options{
			APIKey:  cfg.AssistantKey,
			BaseURL: cfg.AssistantURL,
			Model:   cfg.Model,
			Event:   event,
			History: store,
		})
		if err != nil {
			log.Fatalf("assistant setup failed: %v", err)
		}
		streamer = ai
	}

	engine := chat.New(chat.Options{
		Event:         event,
		Streamer:      streamer,
		Tasks:         planner.Tasks{Client: client},
		Agenda:        planner.Agenda{Client: client},
		Expenses:      planner.Expenses{Client: client},
		Budget:        planner.Budgets{Client: client},
		Notifications: client,
		Conversations: client,
	})
	defer engine.Close()

	prompts := promptHistoryOrNil()
	if err := tui.Run(tui.Options{
		Engine:  engine,
		Event:   event,
		Archive: store,
		Prompts: prompts,
		Topic:   strings.ToLower(topic),
	}); err != nil {
		log.Fatalf("ui error: %v", err)
	}
}

func loadConfig(root rootArgs) config.Config {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return config.ApplyKVOverrides(cfg, root.overrides)
}

func plannerClient(cfg config.Config) *planner.Client {
	client, err := planner.NewClient(planner.Options{
		BaseURL: cfg.PlannerURL,
		Token:   cfg.PlannerToken,
	})
	if err != nil {
		log.Fatalf("planner setup failed: %v", err)
	}
	return client
}

func connectPlanner(cfg config.Config) (*planner.Client, planner.Event) {
	if strings.TrimSpace(cfg.EventID) == "" {
		log.Fatalf("event_id is not configured; set it in %s or via FIESTA_EVENT_ID", cfg.Source)
	}
	client := plannerClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	event, err := client.GetEvent(ctx, cfg.EventID)
	if err != nil {
		log.Fatalf("failed to load event %s: %v", cfg.EventID, err)
	}
	return client, event
}

func mustArchive() *archive.Store {
	store, err := archive.NewDefault()
	if err != nil {
		log.Warnf("local archive unavailable: %v", err)
		return nil
	}
	return store
}

func promptHistoryOrNil() *archive.PromptHistory {
	path, err := archive.DefaultPromptPath()
	if err != nil {
		log.Warnf("prompt history unavailable: %v", err)
		return nil
	}
	return &archive.PromptHistory{Path: path}
}
