package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deptrack/deptrack/pkg/gitoid"
	"github.com/deptrack/deptrack/pkg/store"
)

// algoForID infers the algorithm family from an identifier's length.
func algoForID(id string) (gitoid.Algorithm, error) {
	switch len(id) {
	case gitoid.SHA1.HexLen():
		return gitoid.SHA1, nil
	case gitoid.SHA256.HexLen():
		return gitoid.SHA256, nil
	}
	return 0, fmt.Errorf("identifier %q is neither %d nor %d hex characters",
		id, gitoid.SHA1.HexLen(), gitoid.SHA256.HexLen())
}

func newShowCmd() *cobra.Command {
	var resultDir string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored provenance document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			algo, err := algoForID(id)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(store.ObjectPath(resultDir, algo, id))
			if err != nil {
				return fmt.Errorf("show %s: %w", id, err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&resultDir, "result-dir", ".", "directory the documents were stored under")
	return cmd
}
