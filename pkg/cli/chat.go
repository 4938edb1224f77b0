package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
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
		Name:  "chat",
		Usage: "Interactive city assistant session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			dispatcher, err := cfg.newDispatcher(ctx, tools)
			if err != nil {
				return err
			}

			rl, err := readline.New("citypulse> ")
			if err != nil {
				return goerr.Wrap(err, "failed to start input reader")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Ask about your city. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) {
						continue
					}
					if errors.Is(err, io.EOF) {
						break
					}
					return goerr.Wrap(err, "failed to read input")
				}

				message := strings.TrimSpace(line)
				if message == "" {
					continue
				}
				if message == "exit" || message == "quit" {
					break
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " thinking..."
				sp.Start()
				resp := dispatcher.Handle(ctx, userID, message)
				sp.Stop()

				fmt.Fprintf(c.Root().Writer, "%s\n\n", resp.Reply)
			}

			fmt.Fprintf(c.Root().Writer, "bye\n")
			return nil
		},
	}
}
