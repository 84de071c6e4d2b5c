package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/readytoruncq/fieldservice-uploads/config"
	"github.com/readytoruncq/fieldservice-uploads/logging"
	"github.com/readytoruncq/fieldservice-uploads/tracing"
)

const serviceName = "fieldservice-uploads"

type App struct {
	Engine *gin.Engine
	Server *http.Server

	S3    *s3.Client
	Sqs   *sqs.Client
	Redis *redis.Client

	Config    config.Config
	AwsConfig aws.Config

	Services       *Services
	TracerProvider *sdktrace.TracerProvider
	Logger         logging.Logger
}

func SetupApp() (*App, error) {
	cfg := config.LoadConfig()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	awsCfg, err := initAWS(*cfg.AWSConfig)
	if err != nil {
		return nil, err
	}

	s3Client := initS3(awsCfg, cfg.AWSConfig.Endpoint)
	if s3Client == nil {
		return nil, errors.New("could not init s3")
	}

	sqsClient := initSqs(awsCfg, cfg.AWSConfig.Endpoint)
	if sqsClient == nil {
		return nil, errors.New("could not init sqs")
	}

	rdb := initRedis(*cfg.RedisConfig)

	appLogger := logging.NewSlogLogger(logging.CreateAppLogger(cfg.Env, cfg.ServiceConfig.LogFile))

	app := &App{
		S3:    s3Client,
		Sqs:   sqsClient,
		Redis: rdb,

		Config:    cfg,
		AwsConfig: awsCfg,
		Logger:    appLogger,
	}

	if app.Config.Tracing {
		tp, err := tracing.InitTracer(context.Background(), serviceName, cfg.TracingAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start tracing: %w", err)
		}
		appLogger.Info("tracing in progress", "addr", cfg.TracingAddr)

		app.TracerProvider = tp
	}

	app.Services = BuildServices(app)

	return app, nil
}

func (a *App) Run() error {
	if a.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.Engine = gin.New()
	a.Engine.Use(gin.Recovery())
	if a.Config.Tracing {
		a.Engine.Use(otelgin.Middleware(serviceName))
	}

	a.Services.HTTPHandler.Register(a.Engine)

	a.Server = &http.Server{
		Addr:    a.Config.ServiceConfig.HTTPAddr,
		Handler: a.Engine,
	}

	a.Logger.Info("http server started", "addr", a.Config.ServiceConfig.HTTPAddr)
	return a.Server.ListenAndServe()
}

func initAWS(cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

func initS3(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func initSqs(cfg aws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Host,
		Password: "",
		DB:       0,
	})
}

func (a *App) Shutdown(ctx context.Context) error {
	log.Println("starting graceful shutdown")

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			log.Printf("http server shutdown error: %v", err)
		}
	}

	if a.Services != nil {
		if err := a.Services.Shutdown(ctx); err != nil {
			log.Printf("services shutdown error: %v", err)
		}
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	if a.TracerProvider != nil {
		if err := a.TracerProvider.Shutdown(ctx); err != nil {
			log.Printf("tracer shutdown error: %v", err)
		}
	}

	log.Println("graceful shutdown complete")
	return nil
}
