package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

func moodCommand() *cli.Command {
	var (
		cfg      config
		asJSON   bool
		location string
	)
	tools := newToolSet()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "location",
			Aliases:     []string{"l"},
			Usage:       "Location to score",
			Sources:     cli.EnvVars("CITYPULSE_LOCATION"),
			Destination: &location,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Emit the snapshot as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, cacheFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, assistantFlags(&cfg)...)
	flags = append(flags, tools.flags()...)

	return &cli.Command{
		Name:      "mood",
		Usage:     "Score the current mood of a location",
		ArgsUsage: "[location]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if location == "" {
				location = strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			}
			if location == "" {
				return goerr.New("location is required")
			}

			ctx = cfg.setupContext(ctx)
			dispatcher, err := cfg.newDispatcher(ctx, tools)
			if err != nil {
				return err
			}
			advisor, err := cfg.newAdvisor(ctx)
			if err != nil {
				return err
			}

			result := dispatcher.Mood(ctx, location)

			var advisories []model.Advisory
			if advisor != nil {
				advisories, err = advisor.Evaluate(ctx, location, result)
				if err != nil {
					return goerr.Wrap(err, "failed to evaluate advisories")
				}
			}

			w := c.Root().Writer
			if asJSON {
				payload := map[string]any{
					"location":   model.NormalizeLocation(location),
					"mood":       result,
					"advisories": advisories,
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}

			fmt.Fprintf(w, "Mood in %s: %s (score %.2f)\n", location, result.Label, result.Score)

			sources := make([]string, 0, len(result.Breakdown))
			for name := range result.Breakdown {
				sources = append(sources, name)
			}
			sort.Strings(sources)
			for _, name := range sources {
				sm := result.Breakdown[name]
				fmt.Fprintf(w, "  %-8s %+0.2f", name, sm.Score)
				if len(sm.TopKeywords) > 0 {
					fmt.Fprintf(w, "  (%s)", strings.Join(sm.TopKeywords, ", "))
				}
				fmt.Fprintln(w)
			}

			for _, e := range result.Events {
				fmt.Fprintf(w, "  event: %s x%d via %s\n", e.Type, e.Count, strings.Join(e.Sources, ","))
			}
			for _, a := range advisories {
				fmt.Fprintf(w, "  advisory [%s]: %s", a.Severity, a.Title)
				if a.Note != "" {
					fmt.Fprintf(w, " - %s", a.Note)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
