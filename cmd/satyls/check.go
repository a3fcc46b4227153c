package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/satyls/satyls/analysis"
)

// Check command errors.
var (
	ErrNoSourceFiles = errors.New("no SATySFi source files found")
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Parse SATySFi sources and report diagnostics",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"j"},
				Usage:   "files parsed in parallel (default: check.concurrency or GOMAXPROCS)",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	sources, err := collectSources(args, cfg.CheckExtensions())
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		return ErrNoSourceFiles
	}

	limit := cmd.Int("concurrency")
	if limit <= 0 {
		limit = cfg.Check.Concurrency
	}

	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	docs, err := analysis.BuildAll(ctx, sources, limit)
	if err != nil {
		return err
	}

	if errs := report(os.Stdout, sources, docs); errs > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

// report prints every diagnostic as path:line:col and a summary line.
// It returns the number of error diagnostics.
func report(w io.Writer, sources []analysis.SourceText, docs []*analysis.Document) int {
	st := newStyles(w)

	var errs, warnings int

	for i, doc := range docs {
		for _, d := range doc.Diagnostics {
			var label string

			switch d.Severity {
			case analysis.SeverityError:
				errs++
				label = st.Error.Render("error")
			case analysis.SeverityWarning:
				warnings++
				label = st.Warning.Render("warning")
			case analysis.SeverityInformation, analysis.SeverityHint:
				label = st.Info.Render("info")
			}

			fmt.Fprintf(w, "%s%s %s: %s %s\n",
				st.FilePath.Render(sources[i].Name),
				st.Location.Render(fmt.Sprintf(":%d:%d", d.Range.Start.Line+1, d.Range.Start.Character+1)),
				label,
				d.Message,
				st.Code.Render("["+d.Code+"]"))
		}
	}

	summary := fmt.Sprintf("%d files, %d errors, %d warnings", len(docs), errs, warnings)
	if errs > 0 {
		fmt.Fprintln(w, st.Failure.Render(summary))
	} else {
		fmt.Fprintln(w, st.Success.Render(summary))
	}

	return errs
}
