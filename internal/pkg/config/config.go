// Package config exposes typed access to application settings.
package config

import (
	"io"
	"time"
)

// Config reads settings by dotted key, e.g. "database.url".
//
// Missing keys return the zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond and GetMinute interpret an integer value as a duration unit.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray splits a comma separated value, trimming blanks.
	GetArray(key string) []string
}
