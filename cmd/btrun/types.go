package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	compositeTypes = []string{"sequence", "selector", "priority", "fallback", "reactive_sequence", "reactive_selector", "parallel"}
	decoratorTypes = []string{"inverter", "succeeder", "failer", "repeater", "until_success", "until_failure", "timeout", "cooldown", "counter"}
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the node types a definition may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "composites: %s\n", strings.Join(compositeTypes, ", "))
			fmt.Fprintf(w, "decorators: %s\n", strings.Join(decoratorTypes, ", "))
			fmt.Fprintf(w, "actions:    %s\n", strings.Join(app.Registry.Actions(), ", "))
			fmt.Fprintf(w, "conditions: %s\n", strings.Join(app.Registry.Conditions(), ", "))
			return nil
		},
	}
}
