// Package sqltype holds column types for values PostgreSQL has no native
// type for: non-negative integers stored in signed columns, and JSON
// documents decoded into Go types.
package sqltype
