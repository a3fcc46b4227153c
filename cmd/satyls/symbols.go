package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/satyls/satyls/analysis"
)

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "List the definitions of a file",
		ArgsUsage: "<file>",
		Action:    runSymbols,
	}
}

func runSymbols(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("symbols takes exactly one file", 2)
	}

	path := cmd.Args().First()

	data, err := os.ReadFile(path) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc := analysis.BuildDocument(string(data))
	if doc.Err != nil {
		return fmt.Errorf("%s: %w", path, doc.Err)
	}

	printSymbols(os.Stdout, doc.Environment())

	return nil
}

// printSymbols lists each kind of definition in document order.
func printSymbols(w io.Writer, env *analysis.Environment) {
	st := newStyles(w)

	for _, kind := range []analysis.SymbolKind{
		analysis.SymbolInlineCommand,
		analysis.SymbolBlockCommand,
		analysis.SymbolMathCommand,
		analysis.SymbolVariable,
	} {
		for _, sym := range env.All(kind) {
			fmt.Fprintf(w, "%-10s %s %s\n",
				kind,
				sym.Name,
				st.Location.Render(fmt.Sprintf("%d:%d", sym.Range.Start.Line+1, sym.Range.Start.Character+1)))
		}
	}
}
