package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"fypportal/internal/config"
	"fypportal/internal/firebase"
	"fypportal/internal/metrics"
	"fypportal/internal/server"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ firebase init failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("firestore close error: %v", err)
		}
	}()

	metrics.Register()

	if err := server.Start(ctx, cfg, app); err != nil {
		log.Printf("❌ server error: %v", err)
	}
}
