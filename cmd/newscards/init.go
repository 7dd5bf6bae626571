package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/eringen/newscards/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	SiteName    string
}

// scaffoldFuncs quote values for the file formats the templates produce.
// A JSON string is also a valid double-quoted YAML and dotenv value.
var scaffoldFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"pathEscape": url.PathEscape,
}

type InitCmd struct {
	flags *Flags
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a new newscards site",
		UsageText: "newscards init <dir>",
		Description: `Creates <dir> with a config.yaml, an .env.example and a posts directory
holding a manifest and one example post.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("usage: newscards init <dir>")
	}
	return runInit(c.Root().Writer, c.Args().First())
}

func runInit(w io.Writer, dir string) error {
	dirName := filepath.Base(filepath.Clean(dir))

	if _, err := os.Stat(dir); err == nil {
		return errors.Newf("directory %q already exists", dir)
	}

	data := scaffoldData{
		ProjectName: dirName,
		SiteName:    toTitle(dirName),
	}

	fmt.Fprintf(w, "Creating new newscards site: %s\n\n", dir)

	root := "templates"

	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		outPath := filepath.Join(dir, relPath)
		outPath = strings.TrimSuffix(outPath, ".tmpl")

		// Rename dotenv to .env.example.
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		tmpl, err := template.New(filepath.Base(path)).Funcs(scaffoldFuncs).Parse(string(content))
		if err != nil {
			return errors.Wrapf(err, "parse template %s", path)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrapf(err, "create %s", outPath)
		}
		if err := tmpl.Execute(f, data); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "execute template %s", path)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "close %s", outPath)
		}

		fmt.Fprintf(w, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Done! Next steps:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  cd %s\n", dir)
	fmt.Fprintln(w, "  newscards serve")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add markdown files under posts/ and list them in posts/post.json.")
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-news" -> "My News", "mynews" -> "Mynews"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
