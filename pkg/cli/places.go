package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func placesCommand() *cli.Command {
	var (
		cfg      config
		location string
		limit    int64
	)
	tools := newToolSet()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "location",
			Aliases:     []string{"l"},
			Usage:       "Location to look up",
			Destination: &location,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of places to show",
			Value:       3,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, cacheFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, tools.flags()...)

	return &cli.Command{
		Name:      "places",
		Usage:     "List top rated places to visit",
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

			places, err := dispatcher.Places(ctx, location, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to find places")
			}

			w := c.Root().Writer
			if len(places) == 0 {
				fmt.Fprintf(w, "no places found for %s\n", location)
				return nil
			}
			for i, p := range places {
				fmt.Fprintf(w, "%d. %s", i+1, p.Name)
				if p.Rating > 0 {
					fmt.Fprintf(w, " (rating %.1f)", p.Rating)
				}
				if p.Address != "" {
					fmt.Fprintf(w, " - %s", p.Address)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
