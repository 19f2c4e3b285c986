package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"reduction.dev/csvsort/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(logging.NewTextHandler(os.Stderr)))
	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		slog.Error("terminated with error", "error", err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:   "csvsort",
		Usage:  "Sort delimited files larger than memory by the integer in their first column",
		Writer: stdout,
		Commands: []*cli.Command{{
			Name:      "sort",
			Usage:     "Sort a file into a new file, keeping its header line",
			ArgsUsage: "<inputFilePath> <outputFilePath> [maxMemorySize]",
			Flags:     append(sortFlags(), s3Flags()...),
			Action:    sortAction,
		}, {
			Name:      "check",
			Usage:     "Verify that a file is sorted by its first column",
			ArgsUsage: "<file>",
			Flags:     s3Flags(),
			Action:    checkAction,
		}},
	}
}

func sortFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file with sort settings; flags and arguments override it",
			EnvVars: []string{"CSVSORT_CONFIG"},
		},
		&cli.StringSliceFlag{
			Name:  "param",
			Usage: "key=value substituted for ${key} in the config file",
		},
		&cli.IntFlag{
			Name:    "max-memory-size",
			Usage:   "maximum number of records held in memory per run",
			EnvVars: []string{"CSVSORT_MAX_MEMORY_SIZE"},
		},
		&cli.Uint64Flag{
			Name:    "max-run-bytes",
			Usage:   "also close a run once its records add up to this many bytes",
			EnvVars: []string{"CSVSORT_MAX_RUN_BYTES"},
		},
		&cli.StringFlag{
			Name:    "tmp-dir",
			Usage:   "directory for run files (default: system temp dir)",
			EnvVars: []string{"CSVSORT_TMP_DIR"},
		},
		&cli.BoolFlag{
			Name:    "compress-runs",
			Usage:   "snappy-compress run files",
			EnvVars: []string{"CSVSORT_COMPRESS_RUNS"},
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write Prometheus metrics to this file when done",
			EnvVars: []string{"CSVSORT_METRICS_FILE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "one of debug, info, warn, error",
			EnvVars: []string{"CSVSORT_LOG_LEVEL"},
		},
	}
}

func s3Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "s3-region",
			Usage:   "AWS region for s3:// paths",
			EnvVars: []string{"AWS_REGION"},
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "custom S3 endpoint, e.g. a local MinIO",
			EnvVars: []string{"CSVSORT_S3_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "s3-profile",
			Usage:   "shared config profile for S3 credentials",
			EnvVars: []string{"AWS_PROFILE"},
		},
	}
}
