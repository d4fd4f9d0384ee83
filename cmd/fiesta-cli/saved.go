package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// savedMain 列出已保存的对话：后端列表优先，失败时退回本地存档。
func savedMain(root rootArgs, args []string) {
	fs := flag.NewFlagSet("saved", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var localOnly bool
	fs.BoolVar(&localOnly, "local", false, "List the local archive instead of the backend")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse saved args: %v", err)
	}

	cfg := loadConfig(root)

	if !localOnly {
		client := plannerClient(cfg)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		list, err := client.Saved(ctx, cfg.EventID)
		if err == nil {
			if len(list) == 0 {
				fmt.Println("No saved conversations.")
				return
			}
			for _, rec := range list {
				line := rec.ConversationID
				if rec.Title != "" {
					line += "  " + rec.Title
				}
				if rec.MessageCount > 0 {
					line += fmt.Sprintf("  (%d messages)", rec.MessageCount)
				}
				fmt.Println(line)
			}
			return
		}
		log.Warnf("backend list failed, falling back to local archive: %v", err)
	}

	store := mustArchive()
	if store == nil {
		os.Exit(1)
	}
	records, err := store.List(cfg.EventID)
	if err != nil {
		log.Fatalf("local archive list failed: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No saved conversations.")
		return
	}
	for _, rec := range records {
		fmt.Println(rec.Describe())
	}
}
