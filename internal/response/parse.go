package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrParse marks a classifier response that is not a single JSON object.
var ErrParse = goerr.New("classifier response is not a JSON object")

const fence = "```"

// Parse decodes a raw classifier response. Code fences around the object are
// stripped first. Missing keys take their defaults; a null, empty or
// whitespace-only value counts as missing.
func Parse(raw string) (*Classification, error) {
	cleaned := StripFences(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrParse, err), "decode response", goerr.V("response", raw))
	}
	if obj == nil {
		return nil, goerr.Wrap(ErrParse, "response is null", goerr.V("response", raw))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, goerr.Wrap(ErrParse, "trailing data after object", goerr.V("response", raw))
	}

	return &Classification{
		ProjectName: stringField(obj, "project_name", DefaultProjectName),
		Category:    stringField(obj, "category", DefaultCategory),
		Title:       stringField(obj, "title", DefaultTitle),
		Summary:     stringField(obj, "summary", DefaultSummary),
		Tags:        tagsField(obj, "tags"),
	}, nil
}

// StripFences removes a leading ```lang line marker and a trailing ``` marker
// along with surrounding whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		// Drop an info string such as "json" up to the object start or newline.
		if i := strings.IndexAny(s, "\n{["); i >= 0 {
			if strings.TrimSpace(s[:i]) == "" || isInfoString(s[:i]) {
				s = s[i:]
			}
		} else if isInfoString(s) {
			s = ""
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

func isInfoString(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func stringField(obj map[string]any, key, def string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return def
	}
	s := strings.TrimSpace(textOf(v))
	if s == "" {
		return def
	}
	return s
}

func tagsField(obj map[string]any, key string) []string {
	v, ok := obj[key]
	if !ok || v == nil {
		return []string{}
	}
	list, ok := v.([]any)
	if !ok {
		s := textOf(v)
		if s == "" {
			return []string{}
		}
		return []string{s}
	}
	tags := make([]string, 0, len(list))
	for _, item := range list {
		tags = append(tags, textOf(item))
	}
	return tags
}

// textOf renders a decoded JSON value as text: strings verbatim, numbers in
// their source form, everything else as compact JSON.
func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(buf.String())
}
