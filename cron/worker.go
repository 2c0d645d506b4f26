package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"appointly/config"
	bookingRepo "appointly/database/repository/booking"
	"appointly/services/booking"
	"appointly/utils"
)

const TypeSweepCompleted = "booking:sweep_completed"

// InitCompletionSweeper runs the async worker and its schedule in background.
// The sweep loads confirmed bookings whose end has passed and drives them
// through MarkCompleted as the system actor; it is the external batch job the
// engine itself stays free of.
func InitCompletionSweeper(engine booking.SchedulingEngine, repo bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSweepCompleted, handleSweepTask(engine, repo))

	go func() {
		log.Println("[CompletionSweeper] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CompletionSweeper] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CompletionSweeper] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, nil)
	schedule := config.AppConfig.SweepSchedule
	if schedule == "" {
		schedule = "@every 15m"
	}
	if _, err := scheduler.Register(schedule, asynq.NewTask(TypeSweepCompleted, nil)); err != nil {
		log.Fatalf("[CompletionSweeper] failed to register schedule: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[CompletionSweeper] scheduler stopped: %v", err)
		}
	}()
}

func handleSweepTask(engine booking.SchedulingEngine, repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		ended, err := repo.GetConfirmedEndedBefore(ctx, time.Now())
		if err != nil {
			logger.Error("sweep: failed to load ended bookings", zap.Error(err))
			return err
		}

		completed := 0
		for _, b := range ended {
			if _, err := engine.MarkCompleted(ctx, b.ID, booking.SystemActor); err != nil {
				// Another actor may have transitioned the booking in the
				// meantime; skip and continue.
				logger.Warn("sweep: could not complete booking",
					zap.String("bookingID", b.ID), zap.Error(err))
				continue
			}
			completed++
		}

		logger.Info("completion sweep finished",
			zap.Int("candidates", len(ended)), zap.Int("completed", completed))
		return nil
	}
}
