// @title                       Household Staff Ledger API
// @version                     1.0
// @description                 Phone OTP login and a ledger of domestic workers, their assignments, attendance, salary payments and loans.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/homestaff/staff-ledger/docs"
	"github.com/homestaff/staff-ledger/internal/api"
	"github.com/homestaff/staff-ledger/internal/api/handler"
	"github.com/homestaff/staff-ledger/internal/core/ports"
	"github.com/homestaff/staff-ledger/internal/core/service"
	mongodb "github.com/homestaff/staff-ledger/internal/infrastructure/db/mongo"
	redisdb "github.com/homestaff/staff-ledger/internal/infrastructure/db/redis"
	"github.com/homestaff/staff-ledger/internal/infrastructure/queue"
	"github.com/homestaff/staff-ledger/internal/infrastructure/sms"
	"github.com/homestaff/staff-ledger/internal/pkg/config"
	"github.com/homestaff/staff-ledger/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; in production the environment is set directly.
	envErr := godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "staff-ledger",
	})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	workerRepo := mongodb.NewWorkerRepository(db)
	assignmentRepo := mongodb.NewAssignmentRepository(db)
	attendanceRepo := mongodb.NewAttendanceRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	adjustmentRepo := mongodb.NewAdjustmentRepository(db)

	if err := mongodb.EnsureIndexes(ctx, userRepo, workerRepo, assignmentRepo, attendanceRepo, paymentRepo, adjustmentRepo); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}
	tx := mongodb.NewTransactor(mongoClient)

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- SMS ---
	var transport ports.SMSSender
	if cfg.SMS.AMQPURL == "" {
		log.Warn().Msg("AMQP_URL not set, SMS messages will only be logged")
		transport = sms.NewLogSender(logger.Component("sms"))
	} else {
		amqpSender, err := sms.NewAMQPSender(cfg.SMS.AMQPURL, cfg.SMS.Exchange, cfg.SMS.RoutingKey, logger.Component("sms"))
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connection failed")
		}
		defer amqpSender.Close()
		transport = amqpSender
	}
	smsQueue := queue.NewDispatcher(0, transport, logger.Component("sms-queue"))
	smsQueue.Start()

	// --- Services ---
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	svc := api.Services{
		Auth: service.NewAuthService(userRepo, redisdb.NewOTPStore(rdb), smsQueue, tokens, service.AuthOptions{
			OTPSecret: cfg.OTP.Secret,
			OTPTTL:    cfg.OTP.TTL,
			LogCodes:  cfg.IsDevelopment(),
		}, logger.Component("auth")),
		Workers:     service.NewWorkerService(workerRepo, assignmentRepo, adjustmentRepo, tx, logger.Component("workers")),
		Ledger:      service.NewLedgerService(adjustmentRepo, workerRepo, paymentRepo, assignmentRepo, tx, logger.Component("ledger")),
		Assignments: service.NewAssignmentService(assignmentRepo, workerRepo, attendanceRepo, paymentRepo, tx, logger.Component("assignments")),
		Attendance:  service.NewAttendanceService(attendanceRepo, assignmentRepo, workerRepo, tx, logger.Component("attendance")),
		Payments:    service.NewPaymentService(paymentRepo, assignmentRepo, workerRepo, logger.Component("payments")),
	}

	e := api.NewRouter(svc, api.Options{
		Log: logger.Component("http"),
		Health: map[string]handler.Pinger{
			"mongodb": mongodb.NewPinger(mongoClient),
			"redis":   redisdb.NewPinger(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := smsQueue.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("sms queue did not drain")
	}
	log.Info().Msg("server stopped")
}
