package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/deptrack/deptrack/pkg/gitoid"
)

// defaultConfigFile is searched in the working directory when no
// --config flag is given.
const defaultConfigFile = ".deptrack.toml"

// noteConfig carries the provenance references already embedded in a
// dependency's own artifact, per algorithm family.
type noteConfig struct {
	Path   string `toml:"path"`
	SHA1   string `toml:"sha1"`
	SHA256 string `toml:"sha256"`
}

type depfileConfig struct {
	Output string `toml:"output"`
	Target string `toml:"target"`
}

type signingConfig struct {
	Key string `toml:"key"`
}

// config is the optional .deptrack.toml file. Flags override it.
type config struct {
	ResultDir  string        `toml:"result_dir"`
	Algorithms []string      `toml:"algorithms"`
	Depfile    depfileConfig `toml:"depfile"`
	Signing    signingConfig `toml:"signing"`
	Notes      []noteConfig  `toml:"note"`
}

// loadConfig reads the config file at path, or the default file if path
// is empty. A missing default file yields an empty config; a missing
// explicit file is an error.
func loadConfig(path string) (*config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	cfg := &config{}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// algorithms resolves the configured algorithm names, defaulting to both
// families when none are configured.
func (c *config) algorithms() ([]gitoid.Algorithm, error) {
	if len(c.Algorithms) == 0 {
		return []gitoid.Algorithm{gitoid.SHA1, gitoid.SHA256}, nil
	}
	return parseAlgorithms(c.Algorithms)
}

func parseAlgorithms(names []string) ([]gitoid.Algorithm, error) {
	algos := make([]gitoid.Algorithm, 0, len(names))
	for _, name := range names {
		algo, err := gitoid.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algos = append(algos, algo)
	}
	return algos, nil
}
