package config

// GetServerPort returns the port the dev server listens on.
func GetServerPort() string {
	return GetEnvOrDefault("PORT", "8000")
}

// GetUploadDir returns where the dev server stores uploaded lesson files.
func GetUploadDir() string {
	return GetEnvOrDefault("UPLOAD_DIR", "uploads")
}
