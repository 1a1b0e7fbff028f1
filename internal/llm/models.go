package llm

import "strings"

// modelAliases maps the short names accepted in llm.model to the API model
// IDs of each provider. OpenRouter IDs are already "vendor/model" and are
// never aliased.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-sonnet": "claude-sonnet-4-20250514",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	},
	ProviderOpenAI: {
		"gpt":      "gpt-4.1",
		"gpt-mini": "gpt-4.1-mini",
		"gpt-nano": "gpt-4.1-nano",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.5-flash",
		"gemini-lite":  "gemini-2.5-flash-lite",
		"gemini-pro":   "gemini-2.5-pro",
	},
}

// ResolveModel returns the API model ID for name under provider. Names that
// are not aliases are returned unchanged so raw model IDs keep working.
func ResolveModel(provider, name string) string {
	if id, ok := modelAliases[provider][name]; ok {
		return id
	}
	return name
}

// canonicalModel resolves name against every provider's aliases and strips
// an OpenRouter vendor prefix.
func canonicalModel(name string) string {
	for _, aliases := range modelAliases {
		if id, ok := aliases[name]; ok {
			return id
		}
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
