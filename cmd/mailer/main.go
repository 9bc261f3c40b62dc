package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/mailer"
	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/messaging"
	"github.com/campus-hub/scolarite/student-docs-service/internal/config"
)

func main() {
	log.Println("Starting mail worker...")

	cfg := config.LoadMailerConfig()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.MailQueueName)
	if err != nil {
		log.Fatalf("mailer: failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()
	log.Println("mailer: connected to RabbitMQ")

	sender := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromAddress)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		log.Printf("mailer: consuming queue %q...", cfg.MailQueueName)
		if err := broker.Consume(ctx, sender); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("mailer: received signal %v, shutting down...", sig)
		cancel()
	case err := <-errChan:
		log.Printf("mailer: fatal error, shutting down: %v", err)
		cancel()
	}

	log.Println("mailer: shutdown complete")
}
