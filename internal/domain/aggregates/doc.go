// Package aggregates declares the write boundaries of the progression domain
// and the typed errors they return. Nothing here knows about gorm or HTTP.
package aggregates
