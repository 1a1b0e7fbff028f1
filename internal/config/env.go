package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
)

// envKey turns FLASHDECK_LLM__API_KEY into llm.api_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func envProvider() *env.Env {
	return env.Provider(EnvPrefix, ".", envKey)
}
