package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/citypulse-ai/citypulse/pkg/server"
)

func serveCommand() *cli.Command {
	var (
		cfg  config
		addr string
	)
	tools := newToolSet()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CITYPULSE_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, cacheFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, assistantFlags(&cfg)...)
	flags = append(flags, tools.flags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			dispatcher, err := cfg.newDispatcher(ctx, tools)
			if err != nil {
				return err
			}
			advisor, err := cfg.newAdvisor(ctx)
			if err != nil {
				return err
			}

			opts := []server.Option{server.WithAddr(addr)}
			if advisor != nil {
				opts = append(opts, server.WithAdvisor(advisor))
			}
			return server.New(dispatcher, opts...).Run(ctx)
		},
	}
}
