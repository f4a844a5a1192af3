package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// Unknown or unset variables without defaults are replaced with empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			if idx := strings.Index(inner, ":-"); idx >= 0 {
				varName := inner[:idx]
				defaultVal := inner[idx+2:]
				if val := os.Getenv(varName); val != "" {
					return val
				}
				return defaultVal
			}

			return os.Getenv(inner)
		}

		if strings.HasPrefix(match, "$") {
			return os.Getenv(match[1:])
		}

		return match
	})
}

// ExpandEnvConfig expands environment variables in every string setting
// of cfg in place.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	for _, s := range []*string{
		&cfg.Interface,
		&cfg.Thermal.CPU,
		&cfg.Thermal.DDR,
		&cfg.Proc.Stat,
		&cfg.Proc.LoadAvg,
		&cfg.Display.Sink,
		&cfg.Log.Level,
		&cfg.Log.Format,
		&cfg.Log.File,
	} {
		*s = ExpandEnv(*s)
	}
}
