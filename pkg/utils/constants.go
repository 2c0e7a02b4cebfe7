package utils

const (
	Version = "v0.1.0"
	CliName = "SyncWatch"
)
