package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/cst"
)

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the syntax tree of a file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rule",
				Usage: "entry rule to parse with",
				Value: satyls.RuleProgram.String(),
			},
		},
		Action: runTree,
	}
}

func runTree(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("tree takes exactly one file", 2)
	}

	path := cmd.Args().First()

	rule, ok := satyls.RuleByName(cmd.String("rule"))
	if !ok {
		return fmt.Errorf("%w: %s", satyls.ErrUnsupportedRule, cmd.String("rule"))
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	tree, err := cst.Parse(rule, string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return printTree(os.Stdout, tree, string(data))
}

// printTree writes the pretty-printed tree, coloring leaves apart from
// inner nodes.
func printTree(w io.Writer, root *cst.Node, src string) error {
	st := newStyles(w)

	for line := range strings.Lines(root.Pretty(src)) {
		line = strings.TrimSuffix(line, "\n")
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]

		style := st.Rule
		if strings.HasPrefix(body, "|") {
			style = st.Text
		}

		if _, err := fmt.Fprintln(w, indent+style.Render(body)); err != nil {
			return err
		}
	}

	return nil
}
