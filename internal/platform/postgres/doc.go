// Package postgres provides PostgreSQL implementations of the persistence
// interfaces defined in the store package.
package postgres
