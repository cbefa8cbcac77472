package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"waterbot/internal/app"
	"waterbot/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	err = a.Run(ctx)
	_ = a.Close()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
}
