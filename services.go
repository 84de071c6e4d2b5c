package main

import (
	"context"
	"log"

	"github.com/readytoruncq/fieldservice-uploads/caching"
	"github.com/readytoruncq/fieldservice-uploads/handlers"
	"github.com/readytoruncq/fieldservice-uploads/health"
	"github.com/readytoruncq/fieldservice-uploads/mailer"
	"github.com/readytoruncq/fieldservice-uploads/queues"
	"github.com/readytoruncq/fieldservice-uploads/services"
	"github.com/readytoruncq/fieldservice-uploads/store"
)

type Stores struct {
	objects store.ObjectStorage
}

type Services struct {
	Uploads services.UploadService
	Notify  services.NotifyService
	Events  *queues.StorageEventsReceiverImpl

	Stores *Stores

	HTTPHandler *handlers.HTTPHandler
}

type Shutdowner interface {
	Shutdown(context.Context) error
}

func BuildServices(app *App) *Services {

	objectStorage := store.NewS3ObjectStorageImpl(app.S3, app.Config.S3Config.Bucket, app.Logger)

	var cachingSvc caching.CachingService = caching.NewNullCachingService()
	if app.Redis != nil {
		cachingSvc = caching.NewRedisCachingService(app.Redis)
	}

	var notifyMailer mailer.Mailer
	if m, err := mailer.NewSendGridMailer(app.Config.MailConfig.SendGridAPIKey, app.Logger); err != nil {
		app.Logger.Error("email relay disabled", "error", err)
		notifyMailer = mailer.NewDisabledMailer(err.Error(), app.Logger)
	} else {
		notifyMailer = m
	}

	fetcher := services.NewURISourceFetcherImpl()
	uploadSvc := services.NewUploadServiceImpl(objectStorage, fetcher, app.Config.ServiceConfig.SignedURLTTL, app.Logger)

	notifySvc := services.NewNotifyServiceImpl(
		objectStorage,
		notifyMailer,
		cachingSvc,
		app.Config.ServiceConfig.SignedURLTTL,
		app.Config.MailConfig.To,
		app.Config.MailConfig.From,
		app.Logger,
	)

	var eventsReceiver *queues.StorageEventsReceiverImpl
	if queueUrl := app.Config.SQSConfig.EventsQueueURL; queueUrl != "" {
		eventsReceiver = queues.NewStorageEventsReceiverImpl(context.Background(), app.Sqs, notifySvc, queueUrl, app.Logger)
		eventsReceiver.Start()
	} else {
		app.Logger.Warn("storage events queue not configured, notifier disabled")
	}

	httpHandler := handlers.NewHTTPHandler(uploadSvc, []health.ReadinessCheck{objectStorage}, app.Logger)

	return &Services{
		Uploads: uploadSvc,
		Notify:  notifySvc,
		Events:  eventsReceiver,

		Stores: &Stores{
			objects: objectStorage,
		},

		HTTPHandler: httpHandler,
	}
}

func (s *Services) Shutdown(ctx context.Context) error {
	log.Println("shutting down services")

	if s.Events != nil {
		if err := s.Events.Shutdown(ctx); err != nil {
			log.Printf("events receiver shutdown error: %v", err)
		}
	}

	log.Println("services shutdown complete")
	return nil
}
