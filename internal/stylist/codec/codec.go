// Package codec maps categorical string values to dense integer codes and back.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// SentinelCode is returned by SafeEncode when neither the value nor the
// default belongs to the fitted vocabulary. It carries no category meaning.
const SentinelCode = 0

var (
	ErrUnknownCategoryValue = errors.New("UNKNOWN_CATEGORY_VALUE")
	ErrInvalidCode          = errors.New("INVALID_CODE")
)

// Resolution reports which tier of SafeEncode produced a code.
type Resolution int

const (
	ResolvedExact Resolution = iota
	ResolvedDefault
	ResolvedSentinel
)

func (r Resolution) String() string {
	switch r {
	case ResolvedExact:
		return "exact"
	case ResolvedDefault:
		return "default"
	case ResolvedSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Codec is an ordered bijection between category values and codes 0..n-1.
// Codes follow sorted (byte-wise lexicographic) order of the values, so
// fitting is independent of the order the corpus presents them in.
type Codec struct {
	classes []string
	index   map[string]int
}

// Fit builds a codec from the distinct values in values.
func Fit(values []string) *Codec {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return newCodec(classes)
}

func newCodec(classes []string) *Codec {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &Codec{classes: classes, index: index}
}

func (c *Codec) Encode(value string) (int, error) {
	code, ok := c.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategoryValue, value)
	}
	return code, nil
}

func (c *Codec) Decode(code int) (string, error) {
	if code < 0 || code >= len(c.classes) {
		return "", fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidCode, code, len(c.classes))
	}
	return c.classes[code], nil
}

// SafeEncode encodes value, substituting def when value is unknown and
// SentinelCode when def is unknown too.
func (c *Codec) SafeEncode(value, def string) int {
	code, _ := c.Resolve(value, def)
	return code
}

// Resolve behaves like SafeEncode and also reports the tier that answered.
func (c *Codec) Resolve(value, def string) (int, Resolution) {
	if code, ok := c.index[value]; ok {
		return code, ResolvedExact
	}
	if code, ok := c.index[def]; ok {
		return code, ResolvedDefault
	}
	return SentinelCode, ResolvedSentinel
}

func (c *Codec) Contains(value string) bool {
	_, ok := c.index[value]
	return ok
}

// Classes returns a copy of the vocabulary in code order.
func (c *Codec) Classes() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

func (c *Codec) Len() int {
	return len(c.classes)
}

type codecJSON struct {
	Classes []string `json:"classes"`
}

func (c *Codec) MarshalJSON() ([]byte, error) {
	return json.Marshal(codecJSON{Classes: c.classes})
}

// UnmarshalJSON restores a codec from its persisted class list. The list
// is taken as-is so persisted codes stay stable; duplicates are rejected.
func (c *Codec) UnmarshalJSON(data []byte) error {
	var raw codecJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(raw.Classes))
	for _, v := range raw.Classes {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("duplicate class %q in codec", v)
		}
		seen[v] = struct{}{}
	}
	if raw.Classes == nil {
		raw.Classes = []string{}
	}
	*c = *newCodec(raw.Classes)
	return nil
}
