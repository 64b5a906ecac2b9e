// Package uid generates identifiers: snowflake numbers for rows, UUIDs for
// tokens and message ids.
package uid

// NumberID produces unique, roughly time-ordered int64 ids.
type NumberID interface {
	Generate() int64
}

// StringID produces unique string ids.
type StringID interface {
	Generate() string
}
