package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deptrack/deptrack/pkg/depfile"
	"github.com/deptrack/deptrack/pkg/deps"
)

func newDepsCmd() *cobra.Command {
	var (
		output string
		target string
	)

	cmd := &cobra.Command{
		Use:   "deps --output <file> --target <name> <dep>...",
		Short: "Write a Make-style dependency rule file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := deps.NewSession()
			session.SetDepFile(output)
			for _, dep := range args {
				session.Register(dep)
			}

			// An unwritable depfile warns instead of failing; the
			// surrounding build must not abort over its listing.
			if err := depfile.WriteFile(output, target, session.Dependencies()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "dependency rule file to write")
	cmd.Flags().StringVar(&target, "target", "", "rule target name")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("target")
	return cmd
}
