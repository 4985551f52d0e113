// Package config loads CLI configuration for tablecheck from its config
// file, environment variables, and command-line flags.
package config

// Default configuration values.
const (
	DefaultContractFile = "contract.yaml"
	DefaultOutput       = "table"
)

// Config holds all CLI configuration options.
type Config struct {
	// ContractPath is the contract definition file (YAML or JSON).
	ContractPath string `koanf:"contract"`
	// Schema selects one schema of the contract; empty means the first.
	Schema string `koanf:"schema"`
	// OutputFormat selects the report rendering (table|json|markdown).
	OutputFormat string `koanf:"output"`
	// MaxRows caps the number of flagged rows shown per run; 0 means all.
	MaxRows int  `koanf:"max_rows"`
	Verbose bool `koanf:"verbose"`
}
