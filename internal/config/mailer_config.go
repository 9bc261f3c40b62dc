package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// MailerConfig holds configuration for the SMTP mail worker.
type MailerConfig struct {
	RabbitMQURL   string
	MailQueueName string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	FromAddress   string
}

func LoadMailerConfig() *MailerConfig {
	_ = godotenv.Load()

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queueName := os.Getenv("MAIL_QUEUE_NAME")
	if queueName == "" {
		queueName = "notification_emails"
	}

	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		panic("SMTP_HOST environment variable is required")
	}

	smtpPort := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			panic("SMTP_PORT must be a number: " + err.Error())
		}
		smtpPort = port
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		panic("MAIL_FROM environment variable is required")
	}

	return &MailerConfig{
		RabbitMQURL:   rabbitURL,
		MailQueueName: queueName,
		SMTPHost:      smtpHost,
		SMTPPort:      smtpPort,
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		FromAddress:   from,
	}
}
