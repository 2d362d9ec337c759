package highlight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the encoding of a Summary.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unsupported highlight format: %q", name)
}

// Encode serialises s in format f.
func Encode(s Summary, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return json.Marshal(s)
	case FormatMsgpack:
		return msgpack.Marshal(s)
	}
	return nil, fmt.Errorf("unsupported highlight format: %q", f)
}

// Decode parses data encoded in format f.
func Decode(data []byte, f Format) (Summary, error) {
	var s Summary
	var err error
	switch f {
	case FormatJSON, "":
		err = json.Unmarshal(data, &s)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &s)
	default:
		return Summary{}, fmt.Errorf("unsupported highlight format: %q", f)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("decode %s highlight: %w", f, err)
	}
	return s, nil
}
