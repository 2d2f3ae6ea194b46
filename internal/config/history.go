package config

// GetHistoryPath returns the path of the local turn archive database.
// Empty disables local history.
func GetHistoryPath() string {
	return GetEnvOrDefault("STORYCHAT_HISTORY_PATH", "")
}

// GetTokenPath returns where the persistent token store keeps its token.
// Empty means the OS user config dir is used.
func GetTokenPath() string {
	return GetEnvOrDefault("STORYCHAT_TOKEN_PATH", "")
}
