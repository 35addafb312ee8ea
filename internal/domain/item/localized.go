package item

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultLanguage is the language preferred when picking a display title.
const DefaultLanguage = "en"

// Text is one localized value.
type Text struct {
	Lang  string
	Value string
}

// Localized is an ordered language -> text mapping with at most one entry per language.
// Entry order is insertion order (JSON object key order when decoded).
type Localized struct {
	entries []Text
}

// NewLocalized builds a Localized from entries. A repeated language keeps the
// position of its first occurrence and the value of its last one.
func NewLocalized(entries ...Text) Localized {
	var l Localized
	for _, e := range entries {
		l = l.with(e.Lang, e.Value)
	}
	return l
}

func (l Localized) with(lang, value string) Localized {
	for i := range l.entries {
		if l.entries[i].Lang == lang {
			out := make([]Text, len(l.entries))
			copy(out, l.entries)
			out[i].Value = value
			return Localized{entries: out}
		}
	}
	out := make([]Text, len(l.entries), len(l.entries)+1)
	copy(out, l.entries)
	return Localized{entries: append(out, Text{Lang: lang, Value: value})}
}

// Get returns the text for a language.
func (l Localized) Get(lang string) (string, bool) {
	for _, e := range l.entries {
		if e.Lang == lang {
			return e.Value, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (l Localized) Len() int { return len(l.entries) }

// IsEmpty reports whether there are no entries.
func (l Localized) IsEmpty() bool { return len(l.entries) == 0 }

// Entries returns a copy of the entries in insertion order.
func (l Localized) Entries() []Text {
	out := make([]Text, len(l.entries))
	copy(out, l.entries)
	return out
}

// Values returns the texts in insertion order.
func (l Localized) Values() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Value
	}
	return out
}

// Best returns the English entry, else the first entry, else "".
func (l Localized) Best() string {
	if v, ok := l.Get(DefaultLanguage); ok {
		return v
	}
	if len(l.entries) > 0 {
		return l.entries[0].Value
	}
	return ""
}

// MarshalJSON encodes the mapping as a JSON object, preserving entry order.
func (l Localized) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Lang)
		if err != nil {
			return nil, fmt.Errorf("marshal language: %w", err)
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal text: %w", err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. null decodes to an empty mapping;
// non-string values are skipped.
func (l *Localized) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("localized text: %w", err)
	}
	if tok == nil {
		*l = Localized{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("localized text: expected object, got %v", tok)
	}

	var out Localized
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("localized text: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("localized text %q: %w", key, err)
		}
		var value string
		if json.Unmarshal(raw, &value) != nil {
			continue
		}
		out = out.with(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("localized text: %w", err)
	}
	*l = out
	return nil
}
