// bhvq queries BHV2 behavioral data files with MATLAB-like path
// expressions and prints the results as JSON.
//
// Usage:
//
//	bhvq [options] [query] <file>
//
// Query syntax:
//
//	Field              access a variable or field by name
//	Struct.Field       dot navigation into structs
//	Array(1)           1-based indexing (like MATLAB)
//	Array(1,2)         multi-dimensional indexing
//	Trial*             glob wildcard
//	Trial{1..10}       range expansion
//	Trial{1,5,10}      list expansion
//
// Examples:
//
//	bhvq . data.bhv2                    all variables
//	bhvq FileInfo data.bhv2             the FileInfo struct
//	bhvq 'Trial1.AnalogData' data.bhv2  Trial1's analog data
//	bhvq 'Trial*.TrialError' data.bhv2  TrialError from every trial
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/prestolab/bhv2"
	"github.com/prestolab/bhv2/query"
)

const version = "1.0.0"

func main() {
	var (
		compact    bool
		listOnly   bool
		exitStatus bool
		verbose    bool
	)

	app := &cli.Command{
		Name:      "bhvq",
		Usage:     "Query BHV2 behavioral data files using MATLAB-like syntax",
		ArgsUsage: "[query] <file>",
		Version:   version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "compact", Aliases: []string{"c"}, Usage: "output compact JSON (single line)", Destination: &compact},
			&cli.BoolFlag{Name: "list", Aliases: []string{"l"}, Usage: "list top-level variables only", Destination: &listOnly},
			&cli.BoolFlag{Name: "exit-status", Aliases: []string{"e"}, Usage: "exit with 1 if the query returns nothing", Destination: &exitStatus},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log progress diagnostics to stderr", Destination: &verbose},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			expr := "."
			var path string
			switch c.Args().Len() {
			case 1:
				path = c.Args().Get(0)
			case 2:
				expr = c.Args().Get(0)
				path = c.Args().Get(1)
			default:
				return cli.Exit("error: expected [query] <file>", 1)
			}

			log := zap.NewNop()
			if verbose {
				var err error
				log, err = zap.NewDevelopment()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: logger: %v", err), 1)
				}
				defer func() { _ = log.Sync() }()
			}

			f, err := bhv2.Open(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", path, err), 1)
			}
			defer func() { _ = f.Close() }()
			log.Info("opened file", zap.String("path", path), zap.Int64("size", f.Size()))

			if listOnly {
				return listVariables(f, log)
			}

			q, err := query.Parse(expr)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: parse query %q: %v", expr, err), 1)
			}

			results, err := query.ExecuteFile(f, q)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: query %s: %v", path, err), 1)
			}
			log.Info("query executed", zap.String("query", expr), zap.Int("results", len(results)))

			out, err := query.MarshalResults(results, compact)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode results: %v", err), 1)
			}
			fmt.Println(string(out))

			if exitStatus && len(results) == 0 {
				return cli.Exit("", 1)
			}

			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listVariables(f *bhv2.File, log *zap.Logger) error {
	vars, err := query.ListVariables(f)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: list variables: %v", err), 1)
	}
	log.Info("listed variables", zap.Int("count", len(vars)))

	for _, v := range vars {
		fmt.Printf("%s: %s\n", v.Name, v.Value)
	}

	return nil
}
