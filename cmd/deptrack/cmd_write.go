package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deptrack/deptrack/pkg/deps"
)

func newWriteCmd() *cobra.Command {
	var (
		configPath string
		resultDir  string
		algoNames  []string
		fromFile   string
	)

	cmd := &cobra.Command{
		Use:   "write [dep]...",
		Short: "Compose provenance documents for a set of dependencies",
		Long: `Register the given dependency files, compute their gitoids, and write
one OmniBOR document per requested algorithm into the result directory.
Each document is stored under its own gitoid and that identifier is
printed. Document generation is best-effort: a failure produces a
warning and no identifier, never a build-breaking error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if resultDir == "" {
				resultDir = cfg.ResultDir
			}
			if resultDir == "" {
				return fmt.Errorf("write: no result directory (use --result-dir or result_dir in %s)", defaultConfigFile)
			}

			algos, err := cfg.algorithms()
			if err != nil {
				return err
			}
			if len(algoNames) > 0 {
				if algos, err = parseAlgorithms(algoNames); err != nil {
					return err
				}
			}

			session := deps.NewSession()
			session.EnableDocuments()
			for _, dep := range args {
				session.Register(dep)
			}
			if fromFile != "" {
				if err := registerFromFile(session, fromFile); err != nil {
					return err
				}
			}
			for _, note := range cfg.Notes {
				session.AddNoteReference(note.Path, note.SHA1, note.SHA256)
			}

			out := cmd.OutOrStdout()
			for _, algo := range algos {
				id := session.WriteDocument(algo, resultDir)
				if id == "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: no %s document written to %q\n", algo, resultDir)
					continue
				}
				fmt.Fprintf(out, "%s %s\n", algo, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+defaultConfigFile+" if present)")
	cmd.Flags().StringVar(&resultDir, "result-dir", "", "directory to store documents under")
	cmd.Flags().StringSliceVar(&algoNames, "algo", nil, "algorithms to write (sha1, sha256)")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "file listing one dependency path per line")
	return cmd
}

// registerFromFile registers one dependency per line, skipping blanks
// and '#' comments.
func registerFromFile(session *deps.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("write: open dependency list %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		session.Register(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("write: read dependency list %q: %w", path, err)
	}
	return nil
}
