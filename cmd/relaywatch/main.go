package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/domain"
	"photomarket/internal/relay"
)

// relaywatch tails a user's notification stream in the terminal. Handy for
// watching what the dashboard would see while poking the API.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	token := flag.String("token", os.Getenv("PHOTOMARKET_TOKEN"), "JWT access token")
	flag.Parse()

	if *token == "" {
		log.Fatal("a token is required (-token or PHOTOMARKET_TOKEN)")
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	client := relay.NewClient(relay.NewAPI(*baseURL, *token, nil), zl)
	client.OnNotify = func(n domain.Notification) {
		fmt.Printf("[%s] %s: %s (unread: %d)\n",
			n.Priority, n.Title, n.Message, client.Mirror().UnreadCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, unread, total := client.Mirror().Snapshot()
				fmt.Printf("-- %s | %d unread of %d\n", client.State(), unread, total)
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("relay stopped", zap.Error(err))
	}
}
