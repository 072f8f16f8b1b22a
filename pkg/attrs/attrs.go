// Package attrs reads values back out of slog-style key/value lists so the
// same attributes can feed a log line and an audit event.
package attrs

import "fmt"

// Lookup returns the value paired with key in kv ([k1, v1, k2, v2, ...]).
// The last pairing wins, matching how slog renders duplicate keys.
func Lookup(kv []any, key string) (any, bool) {
	var (
		found any
		ok    bool
	)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, isString := kv[i].(string); isString && k == key {
			found, ok = kv[i+1], true
		}
	}
	return found, ok
}

// ExtractString returns the value for key rendered as a string. Strings and
// fmt.Stringers are supported; anything else yields "".
func ExtractString(kv []any, key string) string {
	v, ok := Lookup(kv, key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}
