package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"reduction.dev/csvsort/config"
	"reduction.dev/csvsort/extsort"
	"reduction.dev/csvsort/logging"
	"reduction.dev/csvsort/storage/locations"
	"reduction.dev/csvsort/storage/objstore"
	"reduction.dev/csvsort/telemetry"
)

func sortAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if cfg.InputPath == "" || cfg.OutputPath == "" {
		fmt.Fprintln(c.App.Writer, "Input and output file paths are required.")
		return cli.ShowSubcommandHelp(c)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	p := message.NewPrinter(language.English)
	p.Fprintf(c.App.Writer, "Input file: %s\n", cfg.InputPath)
	p.Fprintf(c.App.Writer, "Output file: %s\n", cfg.OutputPath)
	p.Fprintf(c.App.Writer, "Max memory size: %d\n", cfg.MaxMemorySize)

	loc, usage, err := newResolver(c, cfg.S3, cfg.InputPath, cfg.OutputPath)
	if err != nil {
		return err
	}
	defer logS3Usage(usage)

	result, err := extsort.Sort(c.Context, extsort.SortParams{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Split: extsort.SplitParams{
			MaxMemorySize: cfg.MaxMemorySize,
			MaxRunBytes:   cfg.MaxRunBytes,
		},
		TempDir:      cfg.TempDir,
		CompressRuns: cfg.CompressRuns,
		Locations:    loc,
	})
	writeMetrics(cfg.MetricsFile)
	if errors.Is(err, extsort.ErrEmptyInput) {
		fmt.Fprintln(c.App.Writer, "File seems to be empty. Aborting process")
		return nil
	}
	if err != nil {
		return err
	}

	p.Fprintf(c.App.Writer, "Sorted %d records in %d runs into %s\n", result.Records, result.Runs, cfg.OutputPath)
	return nil
}

// resolveConfig layers the config file, flags and positional arguments over
// the defaults, later sources winning.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		params, err := parseParams(c.StringSlice("param"))
		if err != nil {
			return cfg, err
		}
		if cfg, err = config.Load(path, params); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("max-memory-size") {
		cfg.MaxMemorySize = c.Int("max-memory-size")
	}
	if c.IsSet("max-run-bytes") {
		cfg.MaxRunBytes = c.Uint64("max-run-bytes")
	}
	if c.IsSet("tmp-dir") {
		cfg.TempDir = c.String("tmp-dir")
	}
	if c.IsSet("compress-runs") {
		cfg.CompressRuns = c.Bool("compress-runs")
	}
	if c.IsSet("metrics-file") {
		cfg.MetricsFile = c.String("metrics-file")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("s3-region") {
		cfg.S3.Region = c.String("s3-region")
	}
	if c.IsSet("s3-endpoint") {
		cfg.S3.Endpoint = c.String("s3-endpoint")
	}
	if c.IsSet("s3-profile") {
		cfg.S3.Profile = c.String("s3-profile")
	}

	args := c.Args()
	if args.Len() > 0 {
		cfg.InputPath = args.Get(0)
	}
	if args.Len() > 1 {
		cfg.OutputPath = args.Get(1)
	}
	if args.Len() > 2 {
		size, err := config.ParseMaxMemorySize(args.Get(2))
		if err != nil {
			slog.Warn("ignoring max memory size argument, using the default",
				"component", "cli", "error", err, "default", config.DefaultMaxMemorySize)
			size = config.DefaultMaxMemorySize
		}
		cfg.MaxMemorySize = size
	}
	return cfg, nil
}

func parseParams(pairs []string) (*config.Params, error) {
	params := config.NewParams()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		params.Set(key, value)
	}
	return params, nil
}

// newResolver builds a location resolver, only creating an S3 client when one
// of the paths needs it. The returned usage is nil without a client.
func newResolver(c *cli.Context, s3 config.S3, paths ...string) (*locations.Resolver, *objstore.S3Usage, error) {
	needsS3 := false
	for _, p := range paths {
		needsS3 = needsS3 || locations.IsS3(p)
	}
	if !needsS3 {
		return locations.NewResolver(nil), nil, nil
	}

	client, err := objstore.NewClient(c.Context, objstore.ClientParams{
		Region:          s3.Region,
		Profile:         s3.Profile,
		Endpoint:        s3.Endpoint,
		AccessKeyID:     s3.AccessKeyID,
		SecretAccessKey: s3.SecretAccessKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating S3 client: %w", err)
	}
	metered := objstore.NewMeteredS3Service(client)
	return locations.NewResolver(metered), metered.Usage, nil
}

func logS3Usage(usage *objstore.S3Usage) {
	if usage == nil {
		return
	}
	gets, puts := usage.Requests()
	slog.Info("s3 usage", "component", "cli", "gets", gets, "puts", puts, "cost", usage.TotalCost())
}

func writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := telemetry.WriteTextfile(path); err != nil {
		slog.Warn("failed to write metrics", "component", "cli", "path", path, "error", err)
	}
}
