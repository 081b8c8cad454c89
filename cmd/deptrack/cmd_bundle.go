package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deptrack/deptrack/pkg/bundle"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Pack or unpack a document store as a compressed bundle",
	}
	cmd.AddCommand(newBundleCreateCmd())
	cmd.AddCommand(newBundleExtractCmd())
	return cmd
}

func newBundleCreateCmd() *cobra.Command {
	var (
		storeRoot string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Pack a result directory's objects into a bundle file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("bundle create: %w", err)
			}
			if err := bundle.Create(storeRoot, f); err != nil {
				f.Close()
				os.Remove(outPath)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("bundle create: close %q: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bundled %s into %s\n", storeRoot, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeRoot, "store", ".", "result directory to bundle")
	cmd.Flags().StringVar(&outPath, "out", "", "bundle file to write")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newBundleExtractCmd() *cobra.Command {
	var (
		inPath   string
		destRoot string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Unpack a bundle file into a result directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("bundle extract: %w", err)
			}
			defer f.Close()

			if err := bundle.Extract(f, destRoot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %s into %s\n", inPath, destRoot)
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "bundle file to read")
	cmd.Flags().StringVar(&destRoot, "dest", ".", "directory to unpack into")
	cmd.MarkFlagRequired("in")
	return cmd
}
