package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assignment-tracker/internal/bot"
	"assignment-tracker/internal/config"
	"assignment-tracker/internal/logger"
	"assignment-tracker/internal/repository"
	"assignment-tracker/internal/service"
	"assignment-tracker/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n\n%s", err, config.Usage())
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := storage.NewStore(repository.NewSlotRepository(db), log)

	taskSvc := service.NewTaskService(store, log)
	taskSvc.Load(ctx)
	prefSvc := service.NewPreferenceService(store)
	prefSvc.Load(ctx)
	reminderSvc := service.NewReminderService(taskSvc, cfg.DigestWindowDays)

	telegramBot, err := bot.New(&cfg, taskSvc, prefSvc, reminderSvc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}

	if cfg.DigestTime != "" {
		scheduler := service.NewSchedulerService(time.Local, log)
		entry, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDigest(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("digest")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Msg("schedule digest")
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Info().Time("next", scheduler.Next(entry)).Msg("digest scheduled")
	}

	log.Info().Msg("assignment tracker started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("shutdown complete")
}
