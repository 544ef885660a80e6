// Package aggregates implements the write-side aggregates declared in
// internal/domain/aggregates on top of gorm repos.
package aggregates
