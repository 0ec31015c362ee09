package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/config"
	"github.com/Astemirdum/bookloan-service/internal/handler"
	"github.com/Astemirdum/bookloan-service/internal/notify"
	"github.com/Astemirdum/bookloan-service/internal/repository"
	"github.com/Astemirdum/bookloan-service/internal/server"
	"github.com/Astemirdum/bookloan-service/internal/service"
	"github.com/Astemirdum/bookloan-service/migrations"
	"github.com/Astemirdum/bookloan-service/pkg/kafka"
	"github.com/Astemirdum/bookloan-service/pkg/logger"
	"github.com/Astemirdum/bookloan-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "bookloan")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log,
		repository.WithWishlistDedup(cfg.Policy.WishlistDedup))
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	pub := service.NewPublisher(producer)
	notifier := notify.New(cfg.Webhook, log)

	svcs := handler.Services{
		Catalog:  service.NewCatalogService(repo, log),
		Members:  service.NewMemberService(repo, log),
		Loans:    service.NewLoanService(repo, pub, notifier, log),
		Ratings:  service.NewRatingService(repo, repo, log),
		Wishlist: service.NewWishlistService(repo, log),
		Payments: service.NewPaymentService(repo, log),
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.PaymentsConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	consumeCtx, consumeCancel := context.WithCancel(context.Background())
	go kafka.Consume(consumeCtx, consumer,
		handler.NewConsumer(svcs.Payments.Record, log), log, kafka.PaymentsTopic)

	h := handler.New(svcs, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
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
	consumeCancel()
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
