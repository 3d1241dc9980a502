package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// env resolves environment fallbacks from the process environment first and a
// .env file in the working directory second.
type env struct {
	dotenv map[string]string
}

func newEnv() env {
	values, err := godotenv.Read(".env")
	if err != nil {
		values = nil
	}
	return env{dotenv: values}
}

func (e env) lookup(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value), true
	}
	value, ok := e.dotenv[key]
	return strings.TrimSpace(value), ok
}
