package utils

import "strings"

// ParseFlexibleBool coerces the is_public field of incoming requests.
// Clients send native booleans or the strings "true"/"false"; anything
// else (numbers, nil, garbage strings) is treated as false.
func ParseFlexibleBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(strings.TrimSpace(val), "true")
	default:
		return false
	}
}
