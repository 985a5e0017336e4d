// Package config exposes typed lookups over the service configuration file.
//
// Keys are dotted paths (for example "database.url" or
// "modules.notification.email.max_retries"). Missing keys and values that
// cannot be converted return the zero value of the requested type.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values as durations of the named unit.
type TimeConfig interface {
	GetMillisecond(key string) time.Duration
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration
}

// NumberConfig reads numeric values.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
	GetFloat32(key string) float32
	GetFloat64(key string) float64
}

// Config is the read side of the configuration used by every module.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray splits a "<a>,<b>,..." value or reads a native list.
	// Elements are trimmed and empty elements are dropped.
	GetArray(key string) []string

	// GetMap parses a "<k1>:<v1>,<k2>:<v2>" value or reads a native map.
	GetMap(key string) map[string]string

	// IsSet reports whether key has a value in any source.
	IsSet(key string) bool
}
