package config

// GetOpenAIKey returns the OpenAI key for the dev server's assistant.
// Empty means the assistant falls back to canned replies.
func GetOpenAIKey() string {
	return GetEnvOrDefault("OPENAI_KEY", "")
}

// GetOpenAIModel returns the model used for dev-server completions.
func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini")
}
