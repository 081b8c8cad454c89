package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deptrack/deptrack/pkg/gitoid"
)

func newVerifyCmd() *cobra.Command {
	var resultDir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-hash stored documents and check their names",
		Long: `Walk the object store under the result directory and verify the
self-reference invariant: for every stored document, the shard prefix
plus file name must equal the gitoid of the document's bytes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var checked, bad int

			for _, algo := range []gitoid.Algorithm{gitoid.SHA1, gitoid.SHA256} {
				algoDir := filepath.Join(resultDir, "objects", algo.StoreDir())
				if _, err := os.Stat(algoDir); os.IsNotExist(err) {
					continue
				}
				err := filepath.WalkDir(algoDir, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						return err
					}
					if d.IsDir() {
						return nil
					}
					shard := filepath.Base(filepath.Dir(path))
					want := shard + d.Name()

					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					digest, err := gitoid.HashBytes(data, algo)
					if err != nil {
						return err
					}
					checked++
					if got := digest.Hex(); got != want {
						bad++
						fmt.Fprintf(out, "corrupt: %s stored as %s, content hashes to %s\n", algo, want, got)
					}
					return nil
				})
				if err != nil {
					return fmt.Errorf("verify: %w", err)
				}
			}

			fmt.Fprintf(out, "verified %d document(s), %d corrupt\n", checked, bad)
			if bad > 0 {
				return fmt.Errorf("verify: %d corrupt document(s)", bad)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resultDir, "result-dir", ".", "directory the documents were stored under")
	return cmd
}
