package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/Ivnbrylle/Auto-Remediation/internal/alarm"
	"github.com/Ivnbrylle/Auto-Remediation/internal/audit"
	"github.com/Ivnbrylle/Auto-Remediation/internal/config"
	"github.com/Ivnbrylle/Auto-Remediation/internal/handler"
	"github.com/Ivnbrylle/Auto-Remediation/internal/maintenance"
	"github.com/Ivnbrylle/Auto-Remediation/internal/notify"
	"github.com/Ivnbrylle/Auto-Remediation/internal/remediation"
	"github.com/Ivnbrylle/Auto-Remediation/internal/telemetry"
)

func main() {
	startTime := time.Now()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	logger.Info("starting ec2 auto-remediator")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("cannot load aws config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	var verifier alarm.Verifier
	if cfg.VerifyAlarmState {
		verifier = alarm.NewStateVerifier(cloudwatch.NewFromConfig(awsCfg), logger)
	}

	gate := maintenance.NewTagGate(ec2.NewFromConfig(awsCfg), cfg.MaintenanceTagKey, logger)
	dispatcher := remediation.NewCommandDispatcher(ssm.NewFromConfig(awsCfg), cfg.SSMDocumentName, logger)

	notifier, err := notify.NewNotifier(awsCfg, cfg)
	if err != nil {
		logger.Error("cannot create notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var auditor handler.Auditor
	if cfg.EventBusName != "" {
		auditor = audit.NewPublisher(eventbridge.NewFromConfig(awsCfg), cfg.EventBusName)
	}

	tp, err := telemetry.NewTracerProvider(ctx)
	if err != nil {
		logger.Error("cannot initialize tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("cannot shutdown tracer provider", slog.String("error", err.Error()))
		}
	}()

	logger.Info(
		"started ec2 auto-remediator",
		slog.String("document", cfg.SSMDocumentName),
		slog.String("notifyTarget", string(cfg.NotifyTarget)),
		slog.String("region", cfg.AWSRegion),
		slog.Bool("verifyAlarmState", cfg.VerifyAlarmState),
		slog.Float64("initDurationSec", time.Since(startTime).Seconds()),
	)

	h := handler.NewEventHandler(verifier, gate, dispatcher, notifier, auditor, logger)
	lambda.Start(
		otellambda.InstrumentHandler(
			h.HandleRequest,
			otellambda.WithTracerProvider(tp),
			otellambda.WithFlusher(tp)),
	)
}
