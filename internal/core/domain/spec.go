package domain

import "strings"

// SpecItem is one extracted specification datum. Unit and PartNumber are
// optional; empty string means unset.
type SpecItem struct {
	Component  string `json:"component"`
	Value      string `json:"value"`
	Unit       string `json:"unit,omitempty"`
	Page       int    `json:"page"`
	RawText    string `json:"raw_text,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
}

// IdentityKey is the deduplication identity: (component, value, unit) after
// lowercasing and whitespace collapsing. Page, raw text and part number do not
// participate.
func (s SpecItem) IdentityKey() string {
	return normalizeIdentity(s.Component) + "\x00" +
		normalizeIdentity(s.Value) + "\x00" +
		normalizeIdentity(s.Unit)
}

func normalizeIdentity(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DedupeSpecItems keeps the first occurrence of each identity key, preserving
// the input order. Idempotent.
func DedupeSpecItems(items []SpecItem) []SpecItem {
	if len(items) <= 1 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]SpecItem, 0, len(items))
	for _, item := range items {
		key := item.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
