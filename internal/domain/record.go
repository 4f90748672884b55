package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Extra holds record fields returned by Automate that have no typed counterpart.
// Keys keep the casing the server sent.
type Extra map[string]interface{}

// decodeRecord unmarshals data into typed and returns the keys typed does not claim.
// Keys are matched case-insensitively, the same way encoding/json fills struct fields.
func decodeRecord(data []byte, typed interface{}, known []string) (Extra, error) {
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}

	var all map[string]interface{}
	if err := decodeNumbers(data, &all); err != nil {
		return nil, err
	}

	var extra Extra
	for key, value := range all {
		if isKnownKey(key, known) {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[key] = value
	}
	return extra, nil
}

// encodeRecord marshals typed and merges extra into the same object.
// Typed fields win when a key collides.
func encodeRecord(typed interface{}, extra Extra) ([]byte, error) {
	data, err := json.Marshal(typed)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	merged := map[string]interface{}{}
	if err := decodeNumbers(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if !isKnownKey(key, keysOf(merged)) {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// decodeNumbers keeps numbers as json.Number so ids re-encode exactly.
func decodeNumbers(data []byte, out interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(out)
}

func isKnownKey(key string, known []string) bool {
	for _, k := range known {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func keysOf(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
