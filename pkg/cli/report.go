package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/citypulse-ai/citypulse/pkg/usecase/report"
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Submit and browse citizen reports",
		Commands: []*cli.Command{
			reportSubmitCommand(),
			reportListCommand(),
		},
	}
}

func reportSubmitCommand() *cli.Command {
	var (
		cfg   config
		input report.SubmitInput
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "location",
			Aliases:     []string{"l"},
			Usage:       "Where the issue was observed",
			Required:    true,
			Destination: &input.Location,
		},
		&cli.StringFlag{
			Name:        "topic",
			Aliases:     []string{"t"},
			Usage:       "Topic of the report (traffic, power, water, ...)",
			Required:    true,
			Destination: &input.Topic,
		},
		&cli.StringFlag{
			Name:        "description",
			Usage:       "What happened",
			Required:    true,
			Destination: &input.Description,
		},
		&cli.StringFlag{
			Name:        "severity",
			Aliases:     []string{"s"},
			Usage:       "Severity (info, minor, major, critical)",
			Destination: &input.Severity,
		},
		&cli.StringFlag{
			Name:        "reporter",
			Usage:       "Who is reporting",
			Sources:     cli.EnvVars("CITYPULSE_USER"),
			Destination: &input.Reporter,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "submit",
		Usage: "File a new citizen report",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := report.New(repo, report.WithOutput(c.Root().Writer))
			stored, err := uc.Submit(ctx, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "report submitted: %s\n", stored.ID)
			return nil
		},
	}
}

func reportListCommand() *cli.Command {
	var (
		cfg      config
		location string
		topic    string
		limit    int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "location",
			Aliases:     []string{"l"},
			Usage:       "Location to list reports for",
			Required:    true,
			Destination: &location,
		},
		&cli.StringFlag{
			Name:        "topic",
			Aliases:     []string{"t"},
			Usage:       "Narrow results to one topic",
			Destination: &topic,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of reports to show",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List reports for a location, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := report.New(repo, report.WithOutput(c.Root().Writer))
			reports, err := uc.List(ctx, report.ListOptions{
				Location: location,
				Topic:    topic,
				Limit:    int(limit),
			})
			if err != nil {
				return err
			}

			uc.Print(reports)
			return nil
		},
	}
}
