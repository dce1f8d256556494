package detect

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports model output that could not be turned into a room
// array. Err carries the underlying decode diagnostic when one exists.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Models wrap the array in markdown fences more often than not, despite
// the prompt asking for bare JSON.
var (
	fencedArrayRE = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	bareArrayRE   = regexp.MustCompile(`(?s)(\[.*?\])`)
)

// ExtractJSON pulls the first JSON array out of raw model text. It prefers
// a fenced code block, falls back to the first bracketed span, and finally
// returns the trimmed text unchanged in case the response is already bare
// JSON.
func ExtractJSON(text string) string {
	if m := fencedArrayRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareArrayRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// ParseRooms extracts and decodes the room array from raw model text.
// Elements come back undecoded so validation can judge each record on its
// own instead of one bad field sinking the whole response.
func ParseRooms(text string) ([]json.RawMessage, error) {
	payload := ExtractJSON(text)

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, &ParseError{Msg: "response is not a JSON array", Err: err}
	}
	if records == nil {
		// "null" decodes cleanly into a nil slice but is not an array.
		return nil, &ParseError{Msg: "response is not a JSON array"}
	}
	return records, nil
}
