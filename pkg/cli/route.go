package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func routeCommand() *cli.Command {
	var (
		cfg         config
		origin      string
		destination string
		mode        string
	)
	tools := newToolSet()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "from",
			Usage:       "Origin of the trip",
			Destination: &origin,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "Destination of the trip",
			Destination: &destination,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "Travel mode (driving, walking, transit)",
			Value:       "driving",
			Destination: &mode,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, cacheFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, tools.flags()...)

	return &cli.Command{
		Name:      "route",
		Usage:     "Find the best route between two points",
		ArgsUsage: "[origin] [destination]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if origin == "" && len(args) > 0 {
				origin = args[0]
			}
			if destination == "" && len(args) > 1 {
				destination = args[1]
			}
			if origin == "" || destination == "" {
				return goerr.New("origin and destination are required")
			}

			ctx = cfg.setupContext(ctx)
			dispatcher, err := cfg.newDispatcher(ctx, tools)
			if err != nil {
				return err
			}

			route, err := dispatcher.BestRoute(ctx, origin, destination, mode)
			if err != nil {
				return goerr.Wrap(err, "failed to find route")
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "%s -> %s via %s\n", origin, destination, route.Summary)
			fmt.Fprintf(w, "  distance: %s\n", route.Distance)
			fmt.Fprintf(w, "  duration: %s\n", route.Duration)
			if route.HasTrafficDelay() {
				fmt.Fprintf(w, "  in traffic: %s\n", route.DurationInTraffic)
			}
			for i, step := range route.Steps {
				fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, step.Instruction, step.Distance)
			}
			return nil
		},
	}
}
