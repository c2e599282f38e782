package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/dmcclung/zero2prod"
	"github.com/dmcclung/zero2prod/auth"
	"github.com/dmcclung/zero2prod/bolt"
	"github.com/dmcclung/zero2prod/broadcast"
	"github.com/dmcclung/zero2prod/http"
	"github.com/dmcclung/zero2prod/postgres"
	"github.com/dmcclung/zero2prod/rabbitmq"
	"github.com/dmcclung/zero2prod/smtp"
	"github.com/dmcclung/zero2prod/sqlite"
	"github.com/dmcclung/zero2prod/subscription"
)

func main() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("db.type", "sqlite")

	var config *zero2prod.Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn: config.Sentry.DSN,
	}); err != nil {
		log.Fatalf("sentry.Init: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	a, err := newApp(config)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		cancel()
	}()

	if err := a.Run(ctx); err != nil {
		_ = a.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	config     *zero2prod.Config
	logger     zerolog.Logger
	db         zero2prod.Database
	store      zero2prod.SubscriberStore
	httpServer *http.Server
	cron       *cron.Cron
	queue      zero2prod.QueueService
}

func newApp(config *zero2prod.Config) (*app, error) {
	httpServer, err := http.NewServer()
	if err != nil {
		return nil, err
	}

	a := &app{
		config:     config,
		logger:     zerolog.New(os.Stdout).With().Timestamp().Logger(),
		httpServer: httpServer,
	}

	switch config.DB.Type {
	case "postgres":
		db := postgres.NewDB(config.DB.DSN)
		a.db = db
		a.store = postgres.NewSubscriberStore(db)
	case "bolt":
		db := bolt.NewDB(config.DB.Path)
		a.db = db
		a.store = bolt.NewSubscriberStore(db)
	default:
		db := sqlite.NewDB(config.DB.Path)
		a.db = db
		a.store = sqlite.NewSubscriberStore(db)
	}

	return a, nil
}

func (a *app) Run(ctx context.Context) error {
	if err := a.db.Open(); err != nil {
		return err
	}

	a.httpServer.Addr = a.config.HTTP.Addr

	if err := a.httpServer.Open(); err != nil {
		return err
	}

	baseURL := a.config.HTTP.BaseURL
	if baseURL == "" {
		baseURL = a.httpServer.URL()
	}

	product := a.config.Newsletter.Product.Name
	a.httpServer.Product = product

	gateway := smtp.NewGateway(
		a.config.SMTP.Host,
		a.config.SMTP.Port,
		a.config.SMTP.Username,
		a.config.SMTP.Password,
		a.config.SMTP.From,
	)

	confirmations := subscription.NewService(a.store, gateway, baseURL, product, a.logger)
	broadcaster := broadcast.NewBroadcaster(a.store, gateway, a.logger)

	validator, err := auth.NewValidator(a.store, a.config.Auth.HashWorkers)
	if err != nil {
		return err
	}

	a.httpServer.ConfirmationService = confirmations
	a.httpServer.CredentialValidator = validator
	a.httpServer.NewsletterBroadcaster = broadcaster

	if spec := a.config.Newsletter.Resend.Cron; spec != "" {
		a.cron = cron.New()
		if _, err := a.cron.AddFunc(spec, func() {
			if err := confirmations.ResendPending(ctx); err != nil {
				a.logger.Error().Err(err).Msg("Failed to resend pending confirmations")
			}
		}); err != nil {
			return err
		}
		a.cron.Start()
	}

	if a.config.AMQP.URL != "" {
		queue, err := rabbitmq.NewQueueService(a.config.AMQP.URL)
		if err != nil {
			return err
		}
		a.queue = queue

		if err := a.consumeIssues(ctx, broadcaster); err != nil {
			return err
		}
	}

	return nil
}

// consumeIssues dispatches queue-originated issues through the same
// broadcaster as POST /newsletter, under a fixed system identity.
func (a *app) consumeIssues(ctx context.Context, broadcaster zero2prod.NewsletterBroadcaster) error {
	topic := a.config.AMQP.Queue
	if topic == "" {
		topic = "newsletter.issues"
	}

	messages, err := a.queue.Consume(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for body := range messages {
			var issue zero2prod.Issue
			if err := json.Unmarshal(body, &issue); err != nil {
				a.logger.Error().Err(err).Msg("Failed to decode queued issue")
				continue
			}

			report, err := broadcaster.Publish(ctx, issue, zero2prod.Identity{Username: "amqp"})
			if err != nil {
				a.logger.Error().Err(err).Msg("Failed to publish queued issue")
				continue
			}

			a.logger.Info().
				Int("attempted", report.Attempted).
				Int("delivered", report.Delivered).
				Int("failed", len(report.Failures)).
				Msg("Queued issue published")
		}
	}()

	return nil
}

func (a *app) Close() error {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}

	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			return err
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Close(); err != nil {
			return err
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return err
		}
	}

	return nil
}
