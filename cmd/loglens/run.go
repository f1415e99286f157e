package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mediascribe/loglens/internal/analyze"
	"github.com/mediascribe/loglens/internal/httpserver"
	"github.com/mediascribe/loglens/internal/kb"
	"github.com/mediascribe/loglens/internal/logging"
	"github.com/mediascribe/loglens/internal/logsource"
	"github.com/mediascribe/loglens/internal/predict"
	"github.com/mediascribe/loglens/internal/reconcile"
)

// run performs one complete analysis pass: line stream, reconciliation,
// prediction, export, and the optional API over the finished result.
func run(cfg appConfig) error {
	logger, err := logging.New(cfg.LogLevel, cfg.VerboseLogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	knowledge := kb.Default()
	if cfg.KBPath != "" {
		knowledge, err = kb.LoadFile(cfg.KBPath, knowledge)
		if err != nil {
			return err
		}
	}

	// A missing primary log file is the one fatal precondition.
	files, err := logsource.Files(cfg.LogFile, cfg.IncludeRotated)
	if err != nil {
		return err
	}
	if len(files) > 1 {
		logger.Info("found rotated log files", zap.Int("count", len(files)-1))
	}

	session := analyze.NewSession(knowledge, logger)
	session.SlowRequestMS = cfg.SlowRequestMS

	for _, path := range files {
		if err := processFile(session, path); err != nil {
			return err
		}
	}
	session.Finish()

	logger.Info("line stream processed",
		zap.Int("lines", session.Stats.TotalLines),
		zap.Int("entries", session.Stats.TotalEntries),
		zap.Int("unique_errors", len(session.Errors)),
		zap.Int("duplicates", session.DuplicateCount()))

	src := reconcile.LoadSources(context.Background(), cfg.DBPath, cfg.OutputDir, logger)
	integrity := reconcile.Integrity(src)
	dbSummary := reconcile.Summarize(src.Records)

	predictions := predict.Analyze(predict.Input{
		ResourceWarnings: session.ResourceWarnings,
		ErrorsByHour:     session.ErrorsByHour,
		Errors:           session.Errors,
	})

	result := session.Result(cfg.LogFile, dbSummary, integrity, predictions)

	if len(integrity.MissingRecords) > 0 {
		logger.Warn("records marked complete but artifacts missing",
			zap.Int("count", len(integrity.MissingRecords)))
	}
	if len(integrity.OrphanedEntries) > 0 {
		logger.Warn("orphaned artifact directories not tracked in record store",
			zap.Int("count", len(integrity.OrphanedEntries)))
	}

	if cfg.JSONPath != "" {
		if err := result.WriteJSON(cfg.JSONPath); err != nil {
			return err
		}
		logger.Info("analysis export written", zap.String("path", cfg.JSONPath))
	}

	if !cfg.APIEnabled {
		return nil
	}

	server := httpserver.NewServer(cfg.APIAddr, &result)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	logger.Info("analysis API listening", zap.String("addr", cfg.APIAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return server.Stop()
}

func processFile(session *analyze.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := session.ProcessReader(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
