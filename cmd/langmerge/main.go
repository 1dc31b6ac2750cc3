package main

import (
	"context"
	"log"
	"os"

	"langmerge/internal/adapters/discord"
	"langmerge/internal/application"
	"langmerge/internal/config"
	"langmerge/internal/infrastructure/filesystem"
	"langmerge/internal/infrastructure/i18n"
	"langmerge/pkg/script"
	"langmerge/pkg/tz"
)

func main() {
	logger := log.New(os.Stdout, "", 0)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("❌ %v", err)
	}

	detector, err := script.FromScripts(cfg.Scripts...)
	if err != nil {
		logger.Fatalf("❌ config: LANGMERGE_SCRIPTS: %v", err)
	}
	loc, err := tz.Resolve(cfg.Timezone)
	if err != nil {
		logger.Fatalf("❌ config: LANGMERGE_TIMEZONE: %v", err)
	}

	translator := i18n.NewTranslator(cfg.Locale)
	opts := []application.Option{application.WithLocation(loc)}
	if cfg.NotifierEnabled() {
		notifier, err := discord.NewNotifier(cfg, translator)
		if err != nil {
			logger.Printf("⚠️ %v", err)
		} else {
			opts = append(opts, application.WithNotifier(notifier))
		}
	}

	svc := application.NewMergeService(cfg, filesystem.NewStore(cfg.TargetFile), detector, translator, logger, opts...)
	if _, err := svc.Run(context.Background()); err != nil {
		logger.Printf("❌ %v", err)
		os.Exit(1)
	}
}
