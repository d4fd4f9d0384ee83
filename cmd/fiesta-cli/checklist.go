package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"fiesta-cli/internal/assistant"
)

// checklistMain 为指定话题生成一份清单并打印，不进入交互界面。
func checklistMain(root rootArgs, args []string) {
	fs := flag.NewFlagSet("checklist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse checklist args: %v", err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		log.Fatalf("usage: fiesta-cli checklist <topic>")
	}
	topic := rest[0]

	cfg := loadConfig(root)
	_, event := connectPlanner(cfg)

	ai, err := assistant.New(assistant.Options{
		APIKey:  cfg.AssistantKey,
		BaseURL: cfg.AssistantURL,
		Model:   cfg.Model,
		Event:   event,
	})
	if err != nil {
		log.Fatalf("assistant setup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	cl, err := ai.GenerateChecklist(ctx, event.ID, topic)
	if err != nil {
		log.Fatalf("checklist generation failed: %v", err)
	}

	title := cl.Title
	if title == "" {
		title = fmt.Sprintf("%s checklist", topic)
	}
	fmt.Println(title)
	for i, item := range cl.Items {
		fmt.Printf("%2d. %s\n", i+1, item.Text)
	}
}
