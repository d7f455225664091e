package token

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Kind is the JSON shape of a decoded claim value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "other"
	}
}

// Value is a single decoded claim value. Numbers keep their textual
// JSON representation so that stringifying them is lossless.
type Value struct {
	kind Kind
	text string
	raw  any
}

func StringValue(s string) Value {
	return Value{kind: KindString, text: s, raw: s}
}

func NumberValue(n json.Number) Value {
	return Value{kind: KindNumber, text: n.String(), raw: n}
}

// OtherValue wraps booleans, nulls, arrays and objects.
func OtherValue(v any) Value {
	text := "null"
	if v != nil {
		if b, err := json.Marshal(v); err == nil {
			text = string(b)
		} else {
			text = fmt.Sprint(v)
		}
	}
	return Value{kind: KindOther, text: text, raw: v}
}

// ValueOf converts a value produced by a JSON decoder configured with
// UseNumber into a Value.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case string:
		return StringValue(t)
	case json.Number:
		return NumberValue(t)
	case float64:
		return NumberValue(json.Number(fmt.Sprint(t)))
	default:
		return OtherValue(t)
	}
}

func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the claim was present with a JSON null.
func (v Value) IsNull() bool { return v.kind == KindOther && v.raw == nil }

// AsString returns the value if it is a JSON string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// String returns the string representation used downstream: the string
// itself, the number's literal text, or compact JSON for anything else.
func (v Value) String() string { return v.text }

// ClaimSet maps claim names to their decoded values.
type ClaimSet map[string]Value

// Strings flattens the set to its string representation.
func (c ClaimSet) Strings() map[string]string {
	out := make(map[string]string, len(c))
	for k, v := range c {
		out[k] = v.String()
	}
	return out
}

// Names returns the claim names in no particular order.
func (c ClaimSet) Names() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	return names
}

const redacted = "[REDACTED]"

// Secret is the shared HMAC key. It never renders its contents through
// fmt or slog.
type Secret []byte

func (s Secret) String() string { return redacted }

func (s Secret) GoString() string { return redacted }

func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

func (s Secret) Len() int { return len(s) }
