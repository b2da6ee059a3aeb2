package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/database"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	defer func() { _ = log.Sync() }()

	db, err := database.NewDB(context.Background(), &cfg.Database, migrations.MigrationFiles, log)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	tokens := auth.NewTokens(cfg.Auth)

	opts := make([]service.Option, 0, 1)
	var publisher *kafka.LoanPublisher
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			// loan events are best effort, the service runs without them
			log.Error("kafka.NewProducer", zap.Error(err))
		} else {
			publisher = kafka.NewLoanPublisher(producer, cfg.Kafka.LoanTopic, log)
			opts = append(opts, service.WithPublisher(publisher))
		}
	}
	svc := service.NewService(repo, tokens, log, opts...)

	if err = svc.Bootstrap(context.Background(), cfg.Bootstrap); err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}

	h := handler.New(handler.Services{
		Books:     svc,
		Auth:      svc,
		Borrowing: svc,
		Stats:     svc,
	}, tokens, log, handler.WithCORSOrigins(cfg.CORS.Origins))
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("db", cfg.Database.Driver))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if publisher != nil {
		if err = publisher.Close(); err != nil {
			log.Warn("publisher.Close", zap.Error(err))
		}
	}
	_ = db.Close()
	log.Info("Graceful shutdown finished")
}
