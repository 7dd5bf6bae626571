package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/eringen/newscards"
)

type ShowCmd struct {
	flags *Flags

	// flags
	style string
	width int
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Render one post in the terminal",
		UsageText: "newscards show [--style dark] [--width 80] <n>",
		Description: `Renders post n (as numbered by 'newscards list') the way its modal
would show it, styled for the terminal.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "style",
				Usage:       "glamour style (dark, light, notty, or a path to a JSON style)",
				Value:       "dark",
				Destination: &cmd.style,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "word wrap width",
				Value:       80,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("usage: newscards show <n>")
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil || n < 1 {
		return errors.Newf("invalid post number %q", c.Args().First())
	}

	app := newscards.New(cmd.flags.Config, newscards.WithLogger(cmd.flags.Log))
	res, err := app.LoadPosts(ctx)
	if err != nil {
		return errors.Wrap(err, "load posts")
	}
	if n > len(res.Posts) {
		return errors.Newf("post %d not found (%d posts)", n, len(res.Posts))
	}
	post := res.Posts[n-1]

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(cmd.style),
		glamour.WithWordWrap(cmd.width),
	)
	if err != nil {
		return errors.Wrap(err, "create renderer")
	}
	out, err := r.Render("# " + post.Title + "\n\n" + post.BodyMarkdown)
	if err != nil {
		return errors.Wrap(err, "render post")
	}
	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}
