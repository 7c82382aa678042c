package app

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nickerso/cellml-decompose/internal/analysis"
	"github.com/nickerso/cellml-decompose/internal/config"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/nickerso/cellml-decompose/internal/decompose"
	"github.com/nickerso/cellml-decompose/internal/emit"
	"github.com/nickerso/cellml-decompose/internal/metrics"
	"github.com/nickerso/cellml-decompose/internal/varid"
)

// Run loads the model, decomposes it and writes every fragment. A degraded
// run returns a nil error; the report and the log carry its status.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.", "locator", a.config.Locator, "output", a.config.OutputDir)

	start := time.Now()
	recorder := metrics.NewRecorder()
	res, runErr := a.run(ctx, recorder)
	recorder.ObserveDuration(time.Since(start))

	snapshot, err := recorder.Snapshot()
	if err != nil {
		logger.Warn("Failed to gather run metrics.", "error", err)
	}

	if a.config.ReportPath != "" {
		report := newReport(runID, a.config, res)
		report.Metrics = snapshot
		if runErr != nil {
			report.Error = runErr.Error()
		}
		if err := writeReport(a.fs, a.config.ReportPath, report); err != nil {
			logger.Error("Failed to write run report.", "path", a.config.ReportPath, "error", err)
			if runErr == nil {
				runErr = err
			}
		} else {
			logger.Debug("Wrote run report.", "path", a.config.ReportPath)
		}
	}

	if runErr != nil {
		return runErr
	}

	logger.Info("Decomposition finished.",
		"model", res.Model,
		"status", res.Status(),
		"fragments", len(res.Fragments),
		"written", len(res.Written),
		"connections", res.Connections,
		"dropped", len(res.Dropped),
		"failed_writes", len(res.Failed),
		"duration", time.Since(start).String(),
	)
	logger.Debug("Run metrics.", "metrics", snapshot)
	return nil
}

func (a *App) run(ctx context.Context, recorder *metrics.Recorder) (*decompose.Result, error) {
	logger := ctxlog.FromContext(ctx)

	settings := config.Default()
	if a.config.SettingsPath != "" {
		loaded, err := a.settings.Load(ctx, a.config.SettingsPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	opts, err := options(settings)
	if err != nil {
		return nil, err
	}

	model, err := a.models.Load(ctx, a.config.Locator)
	if err != nil {
		return nil, err
	}
	logger.Debug("Model loaded.", "model", model.Name, "components", len(model.Components))

	writer, err := a.newWriter(ctx, a.config.OutputDir)
	if err != nil {
		return nil, err
	}

	driver := decompose.NewDriver(
		analysis.NewClassifier(),
		emit.NewEmitter(writer, settings.Indent),
		opts,
		recorder,
	)
	res, err := driver.Run(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("decomposition of %s failed in phase %s: %w", model.Name, driver.Phase(), err)
	}
	return res, nil
}

// options turns settings into driver options.
func options(s *config.Settings) (decompose.Options, error) {
	expose, err := varid.ParseAll(s.Expose)
	if err != nil {
		return decompose.Options{}, fmt.Errorf("invalid expose entry: %w", err)
	}
	hide, err := varid.ParseAll(s.Hide)
	if err != nil {
		return decompose.Options{}, fmt.Errorf("invalid hide entry: %w", err)
	}

	opts := decompose.DefaultOptions()
	opts.ElementErrors = s.ElementErrors
	opts.WriteErrors = s.WriteErrors
	opts.InitialSuffix = s.InitialSuffix
	opts.NamespaceRewrites = s.NamespaceRewrite
	opts.Exposure = decompose.WithOverrides(decompose.ExposeUnlessLocalUnits, expose, hide)
	return opts, nil
}

// newWriter picks the S3 writer for s3:// locations and the filesystem
// writer otherwise.
func (a *App) newWriter(ctx context.Context, dest string) (emit.Writer, error) {
	bucket, prefix, isS3, err := emit.ParseS3URL(dest)
	if err != nil {
		return nil, err
	}
	if !isS3 {
		return emit.NewFSWriter(a.fs, dest), nil
	}

	client := a.s3
	if client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}
	ctxlog.FromContext(ctx).Debug("Writing fragments to S3.", "bucket", bucket, "prefix", prefix)
	return emit.NewS3Writer(client, bucket, prefix), nil
}
