package configs

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type EnvConfig struct {
	ApplicationName string
	ConfigDir       string
}

var Env = &EnvConfig{ConfigDir: "configs"}

// LoadEnv loads the optional dotenv files into the process environment and
// reads the variables the service needs before its properties are resolved.
// Variables already set in the environment take precedence over the files.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	env := viper.New()
	env.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName: getStringOrDefault(env, "APPLICATION_NAME", "snowbird"),
		ConfigDir:       getStringOrDefault(env, "CONFIG_DIR", "configs"),
	}
	return nil
}

func getStringOrDefault(env *viper.Viper, key, defaultValue string) string {
	value := env.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
