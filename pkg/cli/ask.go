package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg    config
		userID string
	)
	tools := newToolSet()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID for query history",
			Value:       "local",
			Sources:     cli.EnvVars("CITYPULSE_USER"),
			Destination: &userID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, cacheFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, assistantFlags(&cfg)...)
	flags = append(flags, tools.flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a single question and exit",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if message == "" {
				return goerr.New("question is required")
			}

			ctx = cfg.setupContext(ctx)
			dispatcher, err := cfg.newDispatcher(ctx, tools)
			if err != nil {
				return err
			}

			resp := dispatcher.Handle(ctx, userID, message)
			fmt.Fprintf(c.Root().Writer, "%s\n", resp.Reply)
			return nil
		},
	}
}
