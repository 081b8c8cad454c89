package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "deptrack",
		Short: "Build dependency tracking and OmniBOR provenance documents",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newHashCmd())
	root.AddCommand(newWriteCmd())
	root.AddCommand(newDepsCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newBundleCmd())
	root.AddCommand(newSignCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("deptrack 0.1.0-dev")
		},
	}
}
