package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	eventapp "github.com/eventi/backend/internal/application/event"
	"github.com/eventi/backend/internal/infrastructure/config"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var output string
	flag.StringVar(&output, "o", "", "Output file (default: stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout carries only the JSON
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel("warn"))))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dump := eventapp.NewDumpService(
		persistence.NewGormEventRepository(db.DB),
		persistence.NewGormSettoreRepository(db.DB),
		persistence.NewGormEventFileRepository(db.DB),
		log,
	)

	if err := write(context.Background(), dump, output); err != nil {
		log.Fatal("Dump failed", zap.Error(err))
	}
	if output != "" {
		log.Info("Dump written", zap.String("file", output))
	}
}

func write(ctx context.Context, dump *eventapp.DumpService, output string) (err error) {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	buf := bufio.NewWriter(w)
	if err := dump.Dump(ctx, buf); err != nil {
		return err
	}
	return buf.Flush()
}
