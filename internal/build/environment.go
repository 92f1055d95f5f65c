package build

import (
	"fmt"
	"path/filepath"
)

// Environment is a deployment channel selecting the output path prefix.
type Environment string

const (
	EnvProduction Environment = "production"
	EnvStaging    Environment = "staging"
	EnvDev        Environment = "dev"
)

// apiVersionSubdir is the fixed URL version segment under every environment prefix.
const apiVersionSubdir = "v1"

// ParseEnvironment validates an environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvProduction, EnvStaging, EnvDev:
		return Environment(s), nil
	}
	return "", fmt.Errorf("invalid environment %q (expected production, staging or dev)", s)
}

// OutputRoot returns the product output root below distDir.
// Production publishes at the root; staging and dev are prefixed.
func (e Environment) OutputRoot(distDir, productName string) string {
	if e == EnvProduction {
		return filepath.Join(distDir, apiVersionSubdir, productName)
	}
	return filepath.Join(distDir, string(e), apiVersionSubdir, productName)
}
