// Package config loads the daemon configuration from the environment.
package config
