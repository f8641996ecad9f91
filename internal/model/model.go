// Package model contains the domain data structures shared across layers.
// Types here carry no database-specific tags or dependencies.
package model
