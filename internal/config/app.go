package config

import "os"

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok {
		return ":8080"
	}
	return port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// LogFile is the rotated log file path; empty disables the file hook.
func LogFile() string {
	return os.Getenv("APP_LOG_FILE")
}
