// Package config implements the driver-level configuration record (§6):
// a project file loaded with gopkg.in/yaml.v3, mirroring how the teacher's
// internal/ext package loads funxy.yaml with the same library.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the external configuration record the core consumes. The
// core never loads it itself (§1 scopes config loading out); Load exists
// for the cmd/funlint driver.
type Config struct {
	ProjectRootDirectory string `yaml:"project_root_directory"`

	MinimumSeverity int `yaml:"minimum_severity"` // 0, 5, or 10

	QuickMode                      bool `yaml:"quick_mode"`
	BackwardCompatibilityChecks    bool `yaml:"backward_compatibility_checks"`
	DeadCodeDetection              bool `yaml:"dead_code_detection"`
	AnalyzeSignatureCompatibility  bool `yaml:"analyze_signature_compatibility"`
	AllowMissingProperties         bool `yaml:"allow_missing_properties"`
	GenericTypesEnabled            bool `yaml:"generic_types_enabled"`
	ReadTypeAnnotations            bool `yaml:"read_type_annotations"`
	IgnoreUndeclaredVarsInGlobal   bool `yaml:"ignore_undeclared_variables_in_global_scope"`

	ParentConstructorRequired []string `yaml:"parent_constructor_required"`

	ExcludeAnalysisDirectoryList []string `yaml:"exclude_analysis_directory_list"`
	ExcludeFileList              []string `yaml:"exclude_file_list"`

	SuppressIssueTypes  []string `yaml:"suppress_issue_types"`
	WhitelistIssueTypes []string `yaml:"whitelist_issue_types"`

	GlobalsTypeMap     map[string]string `yaml:"globals_type_map"`
	RunkitSuperglobals []string          `yaml:"runkit_superglobals"`

	Processes int `yaml:"processes"`
}

// Default returns the permissive defaults a fresh project starts from:
// one process, the lowest severity threshold (0: every issue is kept),
// doc-comments read, generic types enabled, dead code
// detection off (it is incompatible with Processes > 1, see Validate).
func Default() *Config {
	return &Config{
		MinimumSeverity:      0,
		ReadTypeAnnotations:  true,
		GenericTypesEnabled:  true,
		Processes:            1,
	}
}

// Load reads and parses a YAML project configuration file, starting from
// Default() so unset fields keep their sane defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the one hard cross-field constraint from §5: dead
// code detection requires a global reference-count view and is therefore
// incompatible with multiprocess analysis.
func (c *Config) Validate() error {
	if c.DeadCodeDetection && c.Processes > 1 {
		return fmt.Errorf("config: dead_code_detection is incompatible with processes > 1 (got %d)", c.Processes)
	}
	if c.Processes < 1 {
		return fmt.Errorf("config: processes must be >= 1 (got %d)", c.Processes)
	}
	switch c.MinimumSeverity {
	case 0, 5, 10:
	default:
		return fmt.Errorf("config: minimum_severity must be 0, 5, or 10 (got %d)", c.MinimumSeverity)
	}
	return nil
}
