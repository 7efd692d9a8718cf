package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/infra/mail"
	"github.com/xavierca1/nexmart-api/internal/infra/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume lead events and send welcome emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateWorker(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer mq.Close()

		sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.AppURL)
		w := queue.NewWorker(mq.Ch, sender, log.Named("worker"))

		log.Info("welcome worker starting", zap.String("queue", queue.QueueName))
		return w.Start(ctx, queue.QueueName)
	},
}
