package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"reduction.dev/csvsort/config"
	"reduction.dev/csvsort/extsort"
)

func checkAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		fmt.Fprintln(c.App.Writer, "A file path is required.")
		return cli.ShowSubcommandHelp(c)
	}

	s3 := config.S3{
		Region:   c.String("s3-region"),
		Endpoint: c.String("s3-endpoint"),
		Profile:  c.String("s3-profile"),
	}
	loc, usage, err := newResolver(c, s3, path)
	if err != nil {
		return err
	}
	defer logS3Usage(usage)
	rc, err := loc.Open(c.Context, path)
	if err != nil {
		return err
	}
	defer rc.Close()

	result, err := extsort.Check(c.Context, rc)
	if errors.Is(err, extsort.ErrEmptyInput) {
		fmt.Fprintln(c.App.Writer, "File seems to be empty.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s is not sorted: %w", path, err)
	}

	message.NewPrinter(language.English).Fprintf(c.App.Writer, "%s is sorted (%d records)\n", path, result.Records)
	return nil
}
