package opf

import (
	"bytes"
	"encoding/json"
)

type jsonObject map[string]json.RawMessage

func object(raw json.RawMessage, field string) (jsonObject, error) {
	var obj jsonObject
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, formatErr(ErrMalformed, field, "must be an object")
	}
	return obj, nil
}

func objectOrEmpty(raw json.RawMessage, field string) (jsonObject, error) {
	if isAbsent(raw) {
		return jsonObject{}, nil
	}
	return object(raw, field)
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// number reads an optional numeric key. present is false when the key is
// missing or null.
func number(obj jsonObject, key string) (v float64, present bool, err error) {
	raw, ok := obj[key]
	if !ok || isAbsent(raw) {
		return 0, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, formatErr(ErrMalformed, key, "must be a number")
	}
	return v, true, nil
}

// str reads an optional string key.
func str(obj jsonObject, key string) (s string, present bool, err error) {
	raw, ok := obj[key]
	if !ok || isAbsent(raw) {
		return "", false, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, formatErr(ErrMalformed, key, "must be a string")
	}
	return s, true, nil
}

func heading(obj jsonObject) (yaw, pitch, roll float64, err error) {
	if yaw, _, err = number(obj, "yawDegrees"); err != nil {
		return
	}
	if pitch, _, err = number(obj, "pitchDegrees"); err != nil {
		return
	}
	roll, _, err = number(obj, "rollDegrees")
	return
}
