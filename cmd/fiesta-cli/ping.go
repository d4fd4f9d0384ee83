package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"
)

// pingMain 检查策划后端可达性。
func pingMain(root rootArgs, args []string) {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var timeoutSeconds int
	fs.IntVar(&timeoutSeconds, "timeout", 10, "Timeout seconds")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse ping args: %v", err)
	}

	cfg := loadConfig(root)
	client := plannerClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		log.Fatalf("planner unreachable: %v", err)
	}
	fmt.Printf("planner ok (%s)\n", time.Since(start).Round(time.Millisecond))
}
