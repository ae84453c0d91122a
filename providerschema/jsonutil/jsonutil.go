// Package jsonutil provides the shared encode/decode helpers used by the
// providerschema packages to implement closed tagged unions that still
// round-trip unknown fields through an Extra side channel.
package jsonutil

import "encoding/json"

// MergeExtra marshals base and then overlays any keys from extra that base
// did not already set, returning the combined object bytes. Keys already
// present in the marshaled base always win, so Extra can never clobber a
// field the type itself owns.
func MergeExtra(base any, extra map[string]json.RawMessage) ([]byte, error) {
	baseBytes, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return baseBytes, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(baseBytes, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, present := merged[k]; !present {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// SplitKnown decodes data as a flat JSON object and returns every key not
// present in known, so callers can preserve fields they don't model as an
// Extra side channel instead of silently dropping them.
func SplitKnown(data []byte, known map[string]struct{}) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range all {
		if _, ok := known[k]; !ok {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return extra, nil
}

// RawString JSON-encodes s as a bare string value.
func RawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
