package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/pulse/internal/news"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the built-in news providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := news.NewRegistry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range registry.Names() {
				p, err := registry.Get(name)
				if err != nil {
					return err
				}
				def := p.Definition()

				marker := " "
				if name == registry.Default() {
					marker = "*"
				}
				key := "no key"
				if def.RequiresKey {
					key = "key required"
				}
				fmt.Fprintf(out, "%s %-11s %s (%s)\n", marker, name, def.Title, key)
				fmt.Fprintf(out, "  %s\n", strings.Join(p.Categories(), ", "))
			}
			return nil
		},
	}
}
