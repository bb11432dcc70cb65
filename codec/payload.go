package codec

import (
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Payload is the decoded form of one flat boundary value.
type Payload map[string]string

// Encoder is implemented by types that flatten themselves into a Payload.
type Encoder interface {
	EncodePayload() Payload
}

// Decoder is implemented by types that populate themselves from a Payload.
type Decoder interface {
	DecodePayload(p Payload)
}

// New returns an empty payload.
func New() Payload {
	return Payload{}
}

// Marshal encodes v into its wire form. A nil value encodes as the empty string.
func Marshal(v Encoder) string {
	if isNil(v) {
		return ""
	}
	return v.EncodePayload().Encode()
}

func isNil(v Encoder) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Unmarshal decodes text into v. It never fails.
func Unmarshal(text string, v Decoder) {
	v.DecodePayload(Decode(text))
}

// Encode serializes the payload. Keys are sorted so equal payloads encode identically.
func (p Payload) Encode() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}

// String implements fmt.Stringer with the wire form.
func (p Payload) String() string {
	return p.Encode()
}

// Decode parses the wire form. Pairs without '=' decode to an empty value and
// a malformed escape keeps the raw text.
func Decode(text string) Payload {
	ret := Payload{}
	if text == "" {
		return ret
	}
	for _, pair := range strings.Split(text, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		ret[unescape(key)] = unescape(value)
	}
	return ret
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// Has reports whether key is present, including when its value is empty.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Get returns the raw value or "".
func (p Payload) Get(key string) string {
	return p[key]
}

// GetOr returns the value for key or fallback when the key is absent.
func (p Payload) GetOr(key, fallback string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

// Bool accepts "1" and a case insensitive "true".
func (p Payload) Bool(key string) bool {
	v := p[key]
	return v == "1" || strings.EqualFold(v, "true")
}

// Int parses a decimal integer. Fractional text is truncated; anything else yields 0.
func (p Payload) Int(key string) int {
	return int(p.Int64(key))
}

func (p Payload) Int64(key string) int64 {
	v := strings.TrimSpace(p[key])
	if v == "" {
		return 0
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func (p Payload) Float(key string) float64 {
	v := strings.TrimSpace(p[key])
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Nested decodes the record stored under key. A missing key yields an empty payload.
func (p Payload) Nested(key string) Payload {
	return Decode(p[key])
}

// Set stores a raw string value.
func (p Payload) Set(key, value string) Payload {
	p[key] = value
	return p
}

func (p Payload) SetBool(key string, value bool) Payload {
	if value {
		p[key] = "1"
	} else {
		p[key] = "0"
	}
	return p
}

func (p Payload) SetInt(key string, value int) Payload {
	p[key] = strconv.Itoa(value)
	return p
}

func (p Payload) SetInt64(key string, value int64) Payload {
	p[key] = strconv.FormatInt(value, 10)
	return p
}

func (p Payload) SetFloat(key string, value float64) Payload {
	p[key] = strconv.FormatFloat(value, 'f', -1, 64)
	return p
}

// SetNested stores the encoded record under key; a nil record leaves the key absent.
func (p Payload) SetNested(key string, value Encoder) Payload {
	if isNil(value) {
		return p
	}
	p[key] = value.EncodePayload().Encode()
	return p
}

// SetMap stores a plain string map as a nested record.
func (p Payload) SetMap(key string, value map[string]string) Payload {
	p[key] = Payload(value).Encode()
	return p
}

// SetOptional stores value only when it is non-empty.
func (p Payload) SetOptional(key, value string) Payload {
	if value != "" {
		p[key] = value
	}
	return p
}

// Map returns a copy as a plain map.
func (p Payload) Map() map[string]string {
	ret := make(map[string]string, len(p))
	for k, v := range p {
		ret[k] = v
	}
	return ret
}
