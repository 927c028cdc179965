// Package config holds the YAML configuration of the merkletree tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	merkle "github.com/JaechanAnUMD/merkletree-demo"
)

const (
	// DefaultDatasetSize is the number of keys of the generated letter
	// datasets.
	DefaultDatasetSize = 100
	// DefaultTimeout bounds a single prove call.
	DefaultTimeout = 2 * time.Minute
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the top level configuration.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	Dataset                  Dataset                  `yaml:"Dataset"`
	Tree                     Tree                     `yaml:"Tree"`
	Attestation              Attestation              `yaml:"Attestation"`
}

// ApplicationConfiguration contains logging settings.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
}

// Dataset describes the generated letter datasets, one tree per offset.
type Dataset struct {
	Size    int     `yaml:"Size"`
	Offsets []int64 `yaml:"Offsets"`
	// Seed of the key sampler, 0 seeds from the clock.
	Seed uint64 `yaml:"Seed"`
}

// Tree selects the hashing variants.
type Tree struct {
	LeafEncoding string `yaml:"LeafEncoding"`
	OddNode      string `yaml:"OddNode"`
}

// Attestation configures the proving program.
type Attestation struct {
	// KeysDir holds keys written by "attest setup". Empty means a fresh
	// setup on every run.
	KeysDir string `yaml:"KeysDir"`
	// ReceiptPath is where "attest run" writes its receipt, if set.
	ReceiptPath string        `yaml:"ReceiptPath"`
	Timeout     time.Duration `yaml:"Timeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
		},
		Dataset: Dataset{
			Size:    DefaultDatasetSize,
			Offsets: []int64{0, 1, 2},
		},
		Tree: Tree{
			LeafEncoding: merkle.FixedWidthKey.String(),
			OddNode:      merkle.PromoteOdd.String(),
		},
		Attestation: Attestation{
			Timeout: DefaultTimeout,
		},
	}
}

// Load reads the config from path on top of Default. Unknown fields are
// rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Decode(data)
}

// Decode parses YAML config data on top of Default.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if c.Dataset.Size < 0 {
		return fmt.Errorf("%w: negative Dataset.Size %d", ErrInvalidConfig, c.Dataset.Size)
	}
	if c.Attestation.Timeout < 0 {
		return fmt.Errorf("%w: negative Attestation.Timeout %s", ErrInvalidConfig, c.Attestation.Timeout)
	}
	if _, err := c.TreeOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TreeOptions converts the Tree section into merkle options.
func (c Config) TreeOptions() ([]merkle.Option, error) {
	enc, err := merkle.ParseLeafEncoding(c.Tree.LeafEncoding)
	if err != nil {
		return nil, err
	}
	odd, err := merkle.ParseOddNodeStrategy(c.Tree.OddNode)
	if err != nil {
		return nil, err
	}
	return []merkle.Option{merkle.UseLeafEncoding(enc), merkle.UseOddNodeStrategy(odd)}, nil
}
