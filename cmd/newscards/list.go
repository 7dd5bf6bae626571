package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/eringen/newscards"
)

type ListCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags) *ListCmd {
	return &ListCmd{flags: flags}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the posts a page load would show",
		UsageText: "newscards list [--json]",
		Description: `Loads posts exactly like the server does and prints one line per card.

Use --json for one JSON object per card.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	app := newscards.New(cmd.flags.Config, newscards.WithLogger(cmd.flags.Log))
	res, err := app.LoadPosts(ctx)
	if err != nil {
		return errors.Wrap(err, "load posts")
	}
	cards := app.BuildCards(res.Posts)
	w := c.Root().Writer

	if cmd.jsonOutput {
		enc := json.NewEncoder(w)
		for _, card := range cards {
			if err := enc.Encode(card); err != nil {
				return err
			}
		}
		return nil
	}

	if len(cards) == 0 {
		fmt.Fprintf(c.Root().ErrWriter, "No posts found\n")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tEXCERPT")
	for _, card := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", card.Index+1, card.Title, card.Excerpt)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().ErrWriter, "\nsource: %s", res.Source)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(c.Root().ErrWriter, " (%d skipped)", len(res.Skipped))
	}
	fmt.Fprintln(c.Root().ErrWriter)
	return nil
}
