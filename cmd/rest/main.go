package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"smart-product-be/internal/bootstrap"
	"smart-product-be/internal/config"
	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/server"
	"smart-product-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 2. Initialize Tracer
	ctx := context.Background()
	shutdownTracer := tracer.InitTracer(ctx, cfg, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, cfg, sysLogger)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		sysLogger.Info("server", "shutting down", nil)
		if err := srv.Shutdown(); err != nil {
			sysLogger.Error("server", "shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
