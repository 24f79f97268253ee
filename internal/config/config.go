package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Array handling policies for flattening
const (
	ArraysIndex = "index" // join element indices into the column name (tags -> tags_0, tags_1)
	ArraysJSON  = "json"  // serialize the whole array as a JSON string in a single column
)

// Column case conversion options
const (
	CaseOriginal = "original"
	CaseSnake    = "snake"
	CaseCamel    = "camel"
	CasePascal   = "pascal"
)

// DefaultSeparator joins nested keys into flattened column names.
const DefaultSeparator = "_"

// Config represents the complete configuration for a conversion
type Config struct {
	Separator string        `yaml:"separator"`
	Arrays    ArraysConfig  `yaml:"arrays"`
	Naming    NamingConfig  `yaml:"naming"`
	Columns   ColumnsConfig `yaml:"columns"`
	Dev       DevConfig     `yaml:"dev"`
}

// ArraysConfig controls how array-valued fields are flattened
type ArraysConfig struct {
	Policy string `yaml:"policy"`
}

// NamingConfig controls column naming
type NamingConfig struct {
	Case     string            `yaml:"case"`
	Mappings map[string]string `yaml:"mappings"`
}

// ColumnsConfig controls which columns make it into the output
type ColumnsConfig struct {
	Skip []string `yaml:"skip"`

	// compiled regexes (not serialized)
	skipRegexes []*regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Separator: DefaultSeparator,
		Arrays: ArraysConfig{
			Policy: ArraysIndex,
		},
		Naming: NamingConfig{
			Case:     CaseOriginal,
			Mappings: make(map[string]string),
		},
		Columns: ColumnsConfig{
			Skip: []string{},
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compile regex patterns
	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".json2csv.yml", ".json2csv.yaml", "json2csv.yml", "json2csv.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that enum-valued fields hold known values
func (c *Config) Validate() error {
	switch c.Arrays.Policy {
	case ArraysIndex, ArraysJSON:
	default:
		return fmt.Errorf("invalid arrays policy %q: must be %q or %q", c.Arrays.Policy, ArraysIndex, ArraysJSON)
	}

	switch c.Naming.Case {
	case CaseOriginal, CaseSnake, CaseCamel, CasePascal:
	default:
		return fmt.Errorf("invalid naming case %q: must be one of %q, %q, %q, %q",
			c.Naming.Case, CaseOriginal, CaseSnake, CaseCamel, CasePascal)
	}

	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}

	return nil
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	c.Columns.skipRegexes = make([]*regexp.Regexp, 0, len(c.Columns.Skip))
	for _, pattern := range c.Columns.Skip {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid column skip pattern '%s': %w", pattern, err)
		}
		c.Columns.skipRegexes = append(c.Columns.skipRegexes, regex)
	}
	return nil
}

// ColumnName returns the output column name for a flattened key, applying
// explicit mappings first and case conversion second
func (c *Config) ColumnName(key string) string {
	// Check custom mappings first
	if mapped, exists := c.Naming.Mappings[key]; exists {
		return mapped
	}

	switch c.Naming.Case {
	case CaseSnake:
		return strcase.ToSnake(key)
	case CaseCamel:
		return strcase.ToLowerCamel(key)
	case CasePascal:
		return strcase.ToCamel(key)
	}

	// Return original key
	return key
}

// SkipColumn reports whether a column should be excluded from the output
func (c *Config) SkipColumn(name string) bool {
	for _, regex := range c.Columns.skipRegexes {
		if regex.MatchString(name) {
			return true
		}
	}
	// Fall back to uncompiled patterns, e.g. for configs built in code
	if len(c.Columns.skipRegexes) == 0 {
		for _, pattern := range c.Columns.Skip {
			regex, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			if regex.MatchString(name) {
				return true
			}
		}
	}
	return false
}

// MergeCLI applies CLI flag overrides onto the config. Empty string flags
// mean "not set" and leave the config value alone.
func (c *Config) MergeCLI(separator, arrays string, debug bool) error {
	if separator != "" {
		c.Separator = separator
	}
	if arrays != "" {
		c.Arrays.Policy = arrays
	}
	if debug {
		c.Dev.Debug = true
	}
	return c.Validate()
}
