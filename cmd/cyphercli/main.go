// Package main provides the cyphercore CLI entry point.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyphergraph/cyphercore/pkg/config"
	"github.com/cyphergraph/cyphercore/pkg/cypher"
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/vle"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cyphercli",
		Short: "cyphercore - openCypher front-end for a relational graph engine",
		Long: `cyphercli compiles openCypher queries through the front-end's full
pipeline (lexer, parser, binder, pattern-to-join transformer, clause
pipeline) without running them against any storage engine.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cyphercli v%s\n", version)
		},
	})

	compileCmd := &cobra.Command{
		Use:   "compile [query]",
		Short: "Compile a Cypher query and print its plan tree",
		RunE:  runCompile,
	}
	compileCmd.Flags().String("graph", "", "graph namespace (defaults to config.DefaultGraphNamespace)")
	rootCmd.AddCommand(compileCmd)

	explainCmd := &cobra.Command{
		Use:   "explain [query]",
		Short: "Alias for compile: print the EXPLAIN-style plan tree",
		RunE:  runCompile,
	}
	explainCmd.Flags().String("graph", "", "graph namespace (defaults to config.DefaultGraphNamespace)")
	rootCmd.AddCommand(explainCmd)

	vleCmd := &cobra.Command{
		Use:   "vle start end lo hi",
		Short: "Run the variable-length-edge engine over an empty catalog fixture",
		Long: `vle is a diagnostic command: it builds an empty in-memory catalog,
registers no adjacency, and reports every path the VLE engine would yield
between start and end for the given [lo,hi] range. Useful for sanity-
checking range parsing without a real graph attached.`,
		Args: cobra.ExactArgs(4),
		RunE: runVLE,
	}
	rootCmd.AddCommand(vleCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	queryText, err := readQueryArg(args)
	if err != nil {
		return err
	}
	graph, _ := cmd.Flags().GetString("graph")

	cfg := config.LoadFromEnv()
	cat := catalog.New()
	c, err := cypher.Compile(cfg, cat, graph, queryText)
	if err != nil {
		return err
	}
	fmt.Println(cypher.Format(c))
	return nil
}

func readQueryArg(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	return string(data), nil
}

func runVLE(cmd *cobra.Command, args []string) error {
	start, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid start id %q: %w", args[0], err)
	}
	end, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid end id %q: %w", args[1], err)
	}
	lo, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid lo %q: %w", args[2], err)
	}
	hi, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("invalid hi %q: %w", args[3], err)
	}

	cat := catalog.New()
	eng, err := vle.New(cat, start, end, true, lo, hi, hi < 0, ast.DirOut, vle.Match{})
	if err != nil {
		return err
	}
	paths := vle.All(eng)
	fmt.Printf("%d path(s) found between %d and %d\n", len(paths), start, end)
	for _, p := range paths {
		fmt.Printf("  edges=%v end=%d\n", p.EdgeIDs, p.EndID)
	}
	return nil
}
