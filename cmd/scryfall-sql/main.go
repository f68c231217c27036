package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scryfallsql/internal/config"
	"scryfallsql/internal/datasource"
	"scryfallsql/internal/datasource/file"
	"scryfallsql/internal/metrics"
	"scryfallsql/internal/metrics/prompush"
	"scryfallsql/internal/pipeline"
	"scryfallsql/internal/skiplog"
)

// main converts a Scryfall bulk export into a PostgreSQL script. It loads the
// layered config, optionally installs a metrics backend, and runs the
// pipeline from the input file to the output script.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}

	warnings, err := config.Check(*cfg)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w.Error())
	}
	if err != nil {
		fatalf("%v", err)
	}

	if err := run(*cfg); err != nil {
		log.Printf("%v", err)
		// Deferred metric pushes in run have already happened.
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	switch cfg.MetricsBackend {
	case config.MetricsPushgateway:
		b, err := prompush.NewBackend(cfg.Job, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			break
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v, schema=%v", cfg.PushgatewayURL, cfg.MetricsBackend, cfg.Job, cfg.Schema)
		metrics.SetBackend(b.WithGrouping("schema", cfg.Schema))
		defer func() {
			if err := metrics.Flush(); err != nil {
				log.Printf("metrics: flush error: %v", err)
			}
		}()
	default:
		if cfg.Verbose {
			log.Printf("metrics: disabled (backend=%q)", cfg.MetricsBackend)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	var src datasource.Source = file.NewLocal(cfg.InputPath)
	in, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := file.Create(cfg.OutputPath)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Job:        cfg.Job,
		Schema:     cfg.Schema,
		BatchSize:  cfg.BatchSize,
		Workers:    cfg.Workers(),
		EmitSchema: cfg.EmitSchema,
		Verbose:    cfg.Verbose,
	}

	var skips *skiplog.Log
	if cfg.SkippedPath != "" {
		skips, err = skiplog.Create(cfg.SkippedPath)
		if err != nil {
			_ = out.Close()
			return err
		}
		opts.Skips = skips
	}

	_, runErr := pipeline.Run(ctx, opts, in, out)

	closeErr := out.Close()
	if skips != nil {
		if err := skips.Close(); err != nil {
			log.Printf("skiplog: %v", err)
		}
	}

	if runErr != nil {
		discardOutput(cfg.OutputPath)
		return runErr
	}
	if closeErr != nil {
		discardOutput(cfg.OutputPath)
		return fmt.Errorf("close %s: %w", cfg.OutputPath, closeErr)
	}

	log.Printf("wrote %s in %s", cfg.OutputPath, time.Since(start).Truncate(time.Millisecond))
	return nil
}

// discardOutput removes a script that must not be applied.
func discardOutput(path string) {
	if path == file.Stdin {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove %s: %v", path, err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
