package api

import (
	"bytes"
	"encoding/json"
)

// NormalizeAnswer flattens the backend's answer value into display text.
// The backend may return a plain string, an ordered list of fragments, or an
// object carrying text/content fields:
//
//	"hello"                      → hello
//	["x", "y"]                   → x
//	[{"text": "x"}, ...]         → x
//	{"content": "z"}             → z
//	{}                           → {}   (serialized as-is)
//
// The same rule applies whether the value just arrived from the network or is
// being redisplayed from stored history.
func NormalizeAnswer(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) > 0 {
			var first string
			if err := json.Unmarshal(arr[0], &first); err == nil {
				return first
			}
			if t := textOrContent(arr[0]); t != "" {
				return t
			}
		}
		return compact(raw)
	}

	if t := textOrContent(raw); t != "" {
		return t
	}
	return compact(raw)
}

// textOrContent extracts a text field from an object fragment, preferring
// "text" over "content". Empty string means neither was usable.
func textOrContent(raw json.RawMessage) string {
	var obj struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if obj.Text != "" {
		return obj.Text
	}
	return obj.Content
}

// compact serializes the raw structured value for display when no text field
// could be extracted.
func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
