package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

const signaturePrefix = "sshsig-v1"

func newSignCmd() *cobra.Command {
	var (
		keyPath    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "sign <id>",
		Short: "Sign a document identifier with an SSH private key",
		Long: `Produce an attestation over a provenance document identifier. The
signature line is "sshsig-v1:<format>:<base64 pubkey>:<base64 sig>",
signed over "<algorithm header>:<id>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			algo, err := algoForID(id)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if keyPath == "" {
				keyPath = cfg.Signing.Key
			}

			resolvedPath, err := resolveSigningKeyPath(keyPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(resolvedPath)
			if err != nil {
				return fmt.Errorf("read signing key %q: %w", resolvedPath, err)
			}
			signer, err := ssh.ParsePrivateKey(raw)
			if err != nil {
				return fmt.Errorf("parse signing key %q: %w", resolvedPath, err)
			}

			payload := []byte(algo.Header() + ":" + id)
			sig, err := signer.Sign(rand.Reader, payload)
			if err != nil {
				return fmt.Errorf("sign %s: %w", id, err)
			}

			pubB64 := base64.StdEncoding.EncodeToString(signer.PublicKey().Marshal())
			sigB64 := base64.StdEncoding.EncodeToString(sig.Blob)
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%s:%s:%s\n", signaturePrefix, sig.Format, pubB64, sigB64)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "SSH private key (default: signing.key from config, then ~/.ssh)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+defaultConfigFile+" if present)")
	return cmd
}

func resolveSigningKeyPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		return expandUserPath(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	candidates := []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
	for _, candidate := range candidates {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no default SSH private key found in ~/.ssh (id_ed25519, id_ecdsa, id_rsa)")
}

func expandUserPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
