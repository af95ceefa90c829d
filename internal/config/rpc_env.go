package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, base-sepolia -> BASE_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// UnsetEnvVarError is returned when a value is a bare ${VAR} reference to an unset variable
type UnsetEnvVarError struct {
	Name string
}

func (e UnsetEnvVarError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// expandValue expands ${VAR} references. A value consisting only of a
// reference to an unset or empty variable is an error.
func expandValue(raw string) (string, error) {
	if name, ok := DetectEnvVar(raw); ok {
		if value := os.Getenv(name); value != "" {
			return value, nil
		}
		return "", UnsetEnvVarError{Name: name}
	}
	return os.ExpandEnv(raw), nil
}
