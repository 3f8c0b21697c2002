//go:build !moshellfastjson

// Package jsonx selects the JSON implementation at build time: encoding/json
// by default, sonic with the moshellfastjson tag.
package jsonx

import "encoding/json"

func Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
