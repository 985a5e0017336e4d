// Package valueobject holds small value types shared by modules.
package valueobject

import (
	"github.com/spf13/cast"
)

// JSONMap stores arbitrary JSON object data, such as admin test data.
// Values may arrive as JSON numbers or as strings from the CLI, so the
// getters convert leniently.
type JSONMap map[string]any

// Set adds or updates a key-value pair.
func (j JSONMap) Set(key string, value any) {
	j[key] = value
}

// SetIfAbsent only sets the value if the key does not exist.
func (j JSONMap) SetIfAbsent(key string, value any) {
	if _, exists := j[key]; !exists {
		j[key] = value
	}
}

// Get returns the raw value or nil.
func (j JSONMap) Get(key string) any {
	return j[key]
}

// Has checks if a key exists.
func (j JSONMap) Has(key string) bool {
	_, ok := j[key]
	return ok
}

// GetString returns the value as a string, "" when missing or not convertible.
func (j JSONMap) GetString(key string) string {
	v, err := cast.ToStringE(j[key])
	if err != nil {
		return ""
	}
	return v
}

// GetInt64 returns the value as an int64, 0 when missing or not convertible.
func (j JSONMap) GetInt64(key string) int64 {
	v, err := cast.ToInt64E(j[key])
	if err != nil {
		return 0
	}
	return v
}

// GetBool returns the value as a bool, false when missing or not convertible.
func (j JSONMap) GetBool(key string) bool {
	v, err := cast.ToBoolE(j[key])
	if err != nil {
		return false
	}
	return v
}
