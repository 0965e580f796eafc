/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"fmt"
	"strings"
	"time"

	"dirpx.dev/mbean/descriptor"
)

// Policy is the caching behavior selected by a currencyTimeLimit field.
//
// # Values
//
//   - Unset: no currencyTimeLimit anywhere; nothing is served from cache.
//   - Never: currencyTimeLimit < 0; stored values are cleared on lookup.
//   - Forever: currencyTimeLimit == 0; a stored value never goes stale.
//   - Timed: currencyTimeLimit > 0; a stored value is valid for that many
//     seconds after it was last updated.
//
// Policy values are plain integers and safe to share between goroutines.
type Policy int

const (
	// Unset means no currencyTimeLimit was found.
	Unset Policy = iota
	// Never disables caching and clears what was stored.
	Never
	// Forever keeps a stored value valid without a time check.
	Forever
	// Timed keeps a stored value valid for Currency.Limit.
	Timed
)

// String returns "Unset", "Never", "Forever" or "Timed", and "Unknown(<n>)"
// for out-of-range values.
func (p Policy) String() string {
	switch p {
	case Unset:
		return "Unset"
	case Never:
		return "Never"
	case Forever:
		return "Forever"
	case Timed:
		return "Timed"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// Parse parses the tokens produced by Policy.String, ignoring case and
// surrounding whitespace. On failure it returns Unset and an error.
func Parse(s string) (Policy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Unset, fmt.Errorf("cache: empty policy")
	}
	switch strings.ToLower(trimmed) {
	case "unset":
		return Unset, nil
	case "never":
		return Never, nil
	case "forever":
		return Forever, nil
	case "timed":
		return Timed, nil
	default:
		return Unset, fmt.Errorf("cache: unknown policy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an
// error rather than an "Unknown(...)" token.
func (p Policy) MarshalText() ([]byte, error) {
	switch p {
	case Unset, Never, Forever, Timed:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("cache: cannot marshal unknown policy %d", p)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *p is left
// unchanged.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Currency is the resolved cache rule for one attribute or operation.
type Currency struct {
	Policy Policy
	// Limit is the validity window for Timed.
	Limit time.Duration
}

// Caches reports whether results should be stored.
func (c Currency) Caches() bool {
	return c.Policy == Forever || c.Policy == Timed
}

// String renders c as Policy.String, with the limit for Timed, e.g.
// "Timed(30s)". ParseCurrency reads the same form.
func (c Currency) String() string {
	if c.Policy == Timed {
		return fmt.Sprintf("Timed(%s)", c.Limit)
	}
	return c.Policy.String()
}

// Or returns def when c carries no policy.
func (c Currency) Or(def Currency) Currency {
	if c.Policy == Unset {
		return def
	}
	return c
}

// ParseCurrency parses the form produced by Currency.String. An empty
// string is Unset. Timed needs a positive limit in time.ParseDuration
// syntax; the other policies take none.
func ParseCurrency(s string) (Currency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Currency{Policy: Unset}, nil
	}
	head, limit, timed := strings.Cut(s, "(")
	var p Policy
	if err := p.UnmarshalText([]byte(head)); err != nil {
		return Currency{}, err
	}
	if !timed {
		if p == Timed {
			return Currency{}, fmt.Errorf("cache: policy %q needs a limit, e.g. Timed(30s)", s)
		}
		return Currency{Policy: p}, nil
	}
	if p != Timed {
		return Currency{}, fmt.Errorf("cache: policy %s takes no limit", p)
	}
	limit, ok := strings.CutSuffix(limit, ")")
	if !ok {
		return Currency{}, fmt.Errorf("cache: unterminated limit in %q", s)
	}
	d, err := time.ParseDuration(strings.TrimSpace(limit))
	if err != nil {
		return Currency{}, fmt.Errorf("cache: limit in %q: %w", s, err)
	}
	if d <= 0 {
		return Currency{}, fmt.Errorf("cache: limit in %q must be positive", s)
	}
	return Currency{Policy: Timed, Limit: d}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Currency) MarshalText() ([]byte, error) {
	head, err := c.Policy.MarshalText()
	if err != nil || c.Policy != Timed {
		return head, err
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *c is left
// unchanged.
func (c *Currency) UnmarshalText(text []byte) error {
	v, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Resolve reads currencyTimeLimit (seconds) from primary, falling back to
// fallback when primary has none. Values that are not integers count as
// absent.
func Resolve(primary, fallback *descriptor.Descriptor) Currency {
	for _, d := range []*descriptor.Descriptor{primary, fallback} {
		v, ok := d.Lookup(descriptor.CurrencyTimeLimit)
		if !ok || v == nil {
			continue
		}
		n, ok := descriptor.AsInt64(v)
		if !ok {
			continue
		}
		return FromSeconds(n)
	}
	return Currency{Policy: Unset}
}

// FromSeconds maps a currencyTimeLimit value to a Currency.
func FromSeconds(n int64) Currency {
	switch {
	case n < 0:
		return Currency{Policy: Never}
	case n == 0:
		return Currency{Policy: Forever}
	default:
		return Currency{Policy: Timed, Limit: time.Duration(n) * time.Second}
	}
}
