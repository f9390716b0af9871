package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCatalogCmd groups the catalog-inspection subcommands under a
// parent the way the describe and query commands hang off root; for
// now it holds only "list", which prints every loaded descriptor set
// and the top-level messages each one declares.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "inspect the loaded descriptor catalog",
	}
	cmd.AddCommand(newCatalogListCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list descriptor sets and their messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			for _, name := range cat.Names() {
				fmt.Println(name)
				for _, msg := range cat.Set(name).MessageNames() {
					fmt.Printf("  %s\n", msg)
				}
			}
			return nil
		},
	}
}
