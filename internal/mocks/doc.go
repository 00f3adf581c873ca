// Package mocks provides hand-rolled test doubles for the store and auth
// interfaces. Each mock keeps simple in-memory defaults and exposes
// function fields for per-test overrides.
package mocks
