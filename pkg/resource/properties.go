package resource

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

var (
	properties = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// Init loads application properties from a YAML file, resolving ${ENV:default}
// placeholders against the process environment.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read properties %s: %w", filepath, err)
	}

	resolved := make(map[string]any)
	flatten("", v.AllSettings(), resolved)

	for key, value := range resolved {
		v.Set(key, value)
	}

	properties = v
	return nil
}

// flatten walks the nested settings map and resolves placeholders in string leaves.
func flatten(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case map[string]any:
			flatten(fullKey, v, result)
		default:
			result[fullKey] = v
		}
	}
}

// resolveEnvVariable replaces every ${NAME:default} occurrence in value.
// Plain strings are returned untouched.
func resolveEnvVariable(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if envValue, ok := os.LookupEnv(groups[1]); ok {
			return envValue
		}
		return groups[2]
	})
}

// Set overrides a property at runtime. Used by tests and command line overrides.
func Set(key string, value any) {
	properties.Set(key, value)
}

func IsSet(key string) bool {
	return properties.IsSet(key)
}

func GetString(key string) string {
	return properties.GetString(key)
}

func GetBool(key string) bool {
	return properties.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return properties.GetDuration(key)
}

func GetInt(key string) int {
	return properties.GetInt(key)
}

// GetStringOrDefault returns the property or def when it is unset or blank.
func GetStringOrDefault(key, def string) string {
	if value := properties.GetString(key); value != "" {
		return value
	}
	return def
}

// GetDurationOrDefault returns the property or def when it is unset or not positive.
func GetDurationOrDefault(key string, def time.Duration) time.Duration {
	if value := properties.GetDuration(key); value > 0 {
		return value
	}
	return def
}

// GetIntOrDefault returns the property or def when it is unset or not positive.
func GetIntOrDefault(key string, def int) int {
	if value := properties.GetInt(key); value > 0 {
		return value
	}
	return def
}
