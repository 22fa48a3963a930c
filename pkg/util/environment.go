package util

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// LoadDotEnv reads .env and then .env.local from the working directory.
// Missing files are ignored, values already in the environment win over .env
// but .env.local overrides both.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")
}
