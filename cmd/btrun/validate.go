package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/behave/pkg/behavior"
	"github.com/zeusync/behave/pkg/behavior/loader"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a tree definition and print its outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			def, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			root, err := def.Build(app.Registry)
			if err != nil {
				return err
			}
			if err := behavior.Validate(root); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tree:        %s\n", def.Name)
			fmt.Fprintf(w, "nodes:       %d\n", behavior.Count(root))
			fmt.Fprintf(w, "fingerprint: %016x\n", def.Fingerprint())
			for _, name := range def.Unreachable() {
				fmt.Fprintf(w, "unreachable: %s\n", name)
			}
			behavior.Walk(root, func(n behavior.Node, depth int) bool {
				fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", depth), behavior.NameOf(n), behavior.TypeName(n))
				return true
			})
			return nil
		},
	}
}
