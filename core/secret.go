package core

// Secret wraps a sensitive string such as an API key so it cannot leak
// through logging or serialization. String(), GoString(), and the JSON/text
// marshalers all emit a redacted placeholder.
//
// Use Expose() at the single point where the real value is needed (the
// Authorization header).
//
// Example:
//
//	key := NewSecret("cmk_live_4f9a")
//	fmt.Println(key)          // prints: [REDACTED]
//	fmt.Printf("%#v\n", key)  // prints: core.Secret{[REDACTED]}
//	key.Expose()              // returns: "cmk_live_4f9a"
type Secret struct {
	value string
}

// NewSecret wraps a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String returns a redacted placeholder. Implements fmt.Stringer.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString returns a redacted placeholder for %#v formatting.
// Implements fmt.GoStringer.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON returns a redacted JSON string so configs containing a Secret
// can be serialized without exposing the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText returns a redacted text representation (covers YAML and
// similar encoders). Implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the actual value. Callers must not log or serialize the
// result.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether the wrapped value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
