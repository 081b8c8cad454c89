package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deptrack/deptrack/pkg/gitoid"
)

func newHashCmd() *cobra.Command {
	var algoName string

	cmd := &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print the gitoid of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := gitoid.ParseAlgorithm(algoName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				digest, err := gitoid.HashFile(path, algo)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s\n", digest.Hex(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&algoName, "algo", "sha1", "digest algorithm (sha1 or sha256)")
	return cmd
}
