package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type VersionCmd struct{}

// NewVersionCmd creates a new version command
func NewVersionCmd() *VersionCmd {
	return &VersionCmd{}
}

// Register adds the version command to the application
func (cmd *VersionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "version",
		Usage:  "Print the newscards version",
		Action: cmd.run,
	})

	return app
}

func (cmd *VersionCmd) run(_ context.Context, c *cli.Command) error {
	_, err := fmt.Fprintf(c.Root().Writer, "newscards %s\n", build())
	return err
}
