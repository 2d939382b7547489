package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	arcanumctl "github.com/arcanumlarp/arcanum-go/internal/cmd/arcanumctl"
)

func main() {
	cfg, err := arcanumctl.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ARCANUMCTL] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := arcanumctl.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}
