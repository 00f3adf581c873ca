// Package config defines the application configuration structures and the
// loading logic that populates them from files and environment variables.
package config
