package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "citypulse",
		Usage: "Multi-source smart city assistant",
		Commands: []*cli.Command{
			chatCommand(),
			askCommand(),
			moodCommand(),
			routeCommand(),
			placesCommand(),
			reportCommand(),
			historyCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
