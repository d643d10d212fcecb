// Package config loads the job configuration from an optional YAML file,
// .env files and environment variables.
package config
