package config

// Set at build time with -ldflags "-X .../internal/config.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
