package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/yungbote/neurobridge-progress/internal/app"
)

func main() {
	addr := pflag.String("addr", "", "listen address (overrides HTTP_ADDR)")
	envFile := pflag.String("env-file", "", "extra .env file to load before startup")
	skipMigrate := pflag.Bool("skip-migrate", false, "do not run schema auto-migration")
	pflag.Parse()

	if *envFile != "" {
		if err := loadEnvFile(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "load env file: %v\n", err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		_ = os.Setenv("HTTP_ADDR", *addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, app.Options{SkipMigrate: *skipMigrate})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		application.Log.Error("server stopped", "error", err)
		application.Close()
		os.Exit(1)
	}
	application.Log.Info("server shut down")
}
