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

package descriptor

import (
	"strings"

	"dirpx.dev/mbean/apis"
)

const (
	openTag  = "<descriptor>"
	closeTag = "</descriptor>"
	nullText = "(null)"
	opParse  = "descriptor.parse"
)

var entities = []struct {
	ch     byte
	entity string
}{
	{' ', "&#32;"},
	{'"', "&quot;"},
	{'<', "&lt;"},
	{'>', "&gt;"},
	{'&', "&amp;"},
	{'\r', "&#13;"},
	{'\t', "&#9;"},
	{'\n', "&#10;"},
	{'\f', "&#12;"},
}

var (
	escaper   *strings.Replacer
	entityMap = make(map[string]byte, len(entities))
)

func init() {
	pairs := make([]string, 0, 2*len(entities))
	for _, e := range entities {
		pairs = append(pairs, string(e.ch), e.entity)
		entityMap[e.entity] = e.ch
	}
	escaper = strings.NewReplacer(pairs...)
}

// ToXMLString renders d in the descriptor text grammar:
//
//	<Descriptor><field name="NAME" value="VALUE"></field>...</Descriptor>
//
// String values are written escaped. Nil is written as (null) and other
// values as (tag/text) using the registered Codec for their type. A string
// that itself looks like "(...)" is written with the string tag so that it
// survives Parse.
func (d *Descriptor) ToXMLString() (string, error) {
	var b strings.Builder
	b.WriteString("<Descriptor>")
	for _, f := range d.snapshot() {
		v, err := valueText(f.value)
		if err != nil {
			return "", err
		}
		b.WriteString(`<field name="`)
		b.WriteString(escaper.Replace(f.name))
		b.WriteString(`" value="`)
		b.WriteString(v)
		b.WriteString(`"></field>`)
	}
	b.WriteString("</Descriptor>")
	return b.String(), nil
}

func valueText(v any) (string, error) {
	if v == nil {
		return nullText, nil
	}
	if s, ok := v.(string); ok && !parenthesized(s) {
		return escaper.Replace(s), nil
	}
	tag, text, err := encodeValue(v)
	if err != nil {
		return "", err
	}
	return "(" + tag + "/" + escaper.Replace(text) + ")", nil
}

func parenthesized(s string) bool {
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

// Parse builds a Descriptor from the text produced by ToXMLString. Tags are
// matched case-insensitively. Values are not checked against the
// well-known field rules.
func Parse(s string) (*Descriptor, error) {
	in := strings.TrimSpace(s)
	lower := strings.ToLower(in)
	if !strings.HasPrefix(lower, openTag) || !strings.HasSuffix(lower, closeTag) {
		return nil, apis.Errorf(apis.ErrXMLParse, opParse, "no enclosing <Descriptor> tags")
	}

	d := Empty()
	var (
		inField, inDesc bool
		name, value     string
		haveName        bool
		haveValue       bool
	)
	tokens := strings.FieldsFunc(in, func(r rune) bool {
		return strings.ContainsRune("<> \t\n\r\f", r)
	})
	for _, tok := range tokens {
		switch {
		case strings.EqualFold(tok, "field"):
			inField = true
		case strings.EqualFold(tok, "/field"):
			if haveName && haveValue {
				n, err := unquote(name)
				if err != nil {
					return nil, err
				}
				v, err := fieldValue(value)
				if err != nil {
					return nil, err
				}
				d.put(n, v)
			}
			name, value, haveName, haveValue, inField = "", "", false, false, false
		case strings.EqualFold(tok, "descriptor"):
			inDesc = true
		case strings.EqualFold(tok, "/descriptor"):
			name, value, haveName, haveValue, inField, inDesc = "", "", false, false, false, false
		case inField && inDesc:
			eq := strings.IndexByte(tok, '=')
			if eq <= 0 {
				return nil, apis.Errorf(apis.ErrXMLParse, opParse, "expected keyword=value, got %q", tok)
			}
			switch kw := tok[:eq]; {
			case strings.EqualFold(kw, "name"):
				name, haveName = tok[eq+1:], true
			case strings.EqualFold(kw, "value"):
				value, haveValue = tok[eq+1:], true
			default:
				return nil, apis.Errorf(apis.ErrXMLParse, opParse, "expected name or value, got %q", tok)
			}
		}
	}
	return d, nil
}

// fieldValue decodes one quoted value token.
func fieldValue(quoted string) (any, error) {
	s, err := unquote(quoted)
	if err != nil {
		return nil, err
	}
	if s == nullText {
		return nil, nil
	}
	if !parenthesized(s) {
		return s, nil
	}
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return s[1 : len(s)-1], nil
	}
	return decodeValue(s[1:slash], s[slash+1:len(s)-1])
}

// unquote strips the surrounding quotes of s and resolves entities.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", apis.Errorf(apis.ErrXMLParse, opParse, "value must be quoted: %s", s)
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '&') < 0 {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			return "", apis.Errorf(apis.ErrXMLParse, opParse, "missing ';' after '&' in %q", s)
		}
		ent := s[i : i+semi+1]
		ch, ok := entityMap[ent]
		if !ok {
			return "", apis.Errorf(apis.ErrXMLParse, opParse, "unknown entity %q", ent)
		}
		b.WriteByte(ch)
		i += semi
	}
	return b.String(), nil
}
