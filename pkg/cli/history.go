package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/citypulse-ai/citypulse/pkg/usecase/history"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and archive query history",
		Commands: []*cli.Command{
			historyListCommand(),
			historySimilarCommand(),
			historyExportCommand(),
			historyFeaturesCommand(),
		},
	}
}

func historyListCommand() *cli.Command {
	var (
		cfg    config
		userID string
		limit  int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to list history for",
			Value:       "local",
			Sources:     cli.EnvVars("CITYPULSE_USER"),
			Destination: &userID,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of records to show",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List a user's interactions, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := history.New(repo, history.WithOutput(c.Root().Writer))
			records, err := uc.List(ctx, userID, int(limit))
			if err != nil {
				return err
			}

			uc.Print(records)
			return nil
		},
	}
}

func historySimilarCommand() *cli.Command {
	var (
		cfg    config
		userID string
		query  string
		limit  int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to search history for",
			Value:       "local",
			Sources:     cli.EnvVars("CITYPULSE_USER"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Text to match against past queries",
			Required:    true,
			Destination: &query,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of records to show",
			Value:       10,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "similar",
		Usage: "Find past queries similar to the given text",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := history.New(repo, history.WithOutput(c.Root().Writer))
			records, err := uc.Similar(ctx, userID, query, int(limit))
			if err != nil {
				return err
			}

			uc.Print(records)
			return nil
		},
	}
}

func historyExportCommand() *cli.Command {
	var (
		cfg    config
		userID string
		bucket string
		key    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to export history for",
			Value:       "local",
			Sources:     cli.EnvVars("CITYPULSE_USER"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for the archive",
			Required:    true,
			Sources:     cli.EnvVars("CITYPULSE_EXPORT_BUCKET"),
			Destination: &bucket,
		},
		&cli.StringFlag{
			Name:        "key",
			Usage:       "Object key (derived from user and timestamp when empty)",
			Destination: &key,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Archive a user's history as NDJSON to Cloud Storage",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			storage, err := cfg.newStorage(ctx, bucket)
			if err != nil {
				return err
			}

			uc := history.New(repo,
				history.WithStorage(storage),
				history.WithOutput(c.Root().Writer))
			count, err := uc.Export(ctx, userID, key)
			if err != nil {
				return goerr.Wrap(err, "failed to export history")
			}

			fmt.Fprintf(c.Root().Writer, "exported %d records\n", count)
			return nil
		},
	}
}

func historyFeaturesCommand() *cli.Command {
	var (
		cfg     config
		userID  string
		dataset string
		table   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to build features for",
			Value:       "local",
			Sources:     cli.EnvVars("CITYPULSE_USER"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "dataset",
			Usage:       "BigQuery dataset ID",
			Required:    true,
			Sources:     cli.EnvVars("CITYPULSE_BQ_DATASET"),
			Destination: &dataset,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "BigQuery table ID",
			Required:    true,
			Sources:     cli.EnvVars("CITYPULSE_BQ_TABLE"),
			Destination: &table,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "features",
		Usage: "Stream history feature rows into the analytics table",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			bq, err := cfg.newBigQuery(ctx)
			if err != nil {
				return err
			}

			uc := history.New(repo,
				history.WithBigQuery(bq),
				history.WithOutput(c.Root().Writer))
			count, err := uc.Features(ctx, userID, dataset, table)
			if err != nil {
				return goerr.Wrap(err, "failed to build feature rows")
			}

			fmt.Fprintf(c.Root().Writer, "inserted %d rows\n", count)
			return nil
		},
	}
}
