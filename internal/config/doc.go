// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional config file and a local .env file.
// It provides type-safe access to the settings of the HTTP server, the
// collection store backends, identity verification, the completion providers
// and billing, keeping configuration details out of business logic.
package config
