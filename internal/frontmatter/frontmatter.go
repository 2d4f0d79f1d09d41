// Package frontmatter separates a leading YAML header (`---` delimited) from
// the body of a content file.
package frontmatter

import (
	"errors"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the content started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Block is the result of splitting a content file.
type Block struct {
	Header string // Raw YAML without delimiters
	Body   string
	Had    bool // The content started with a front matter delimiter
}

// Split separates YAML front matter from the body. LF and CRLF line endings
// are both accepted. Content without a leading delimiter is returned as body.
func Split(content string) (Block, error) {
	nl := detectNewline(content)
	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return Block{Body: content}, nil
	}

	rest := content[len(open):]
	if strings.HasPrefix(rest, open) {
		return Block{Body: rest[len(open):], Had: true}, nil
	}

	closeSeq := nl + "---" + nl
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if strings.HasSuffix(rest, nl+"---") {
			return Block{Header: rest[:len(rest)-len("---")], Had: true}, nil
		}
		return Block{}, ErrMissingClosingDelimiter
	}

	return Block{
		Header: rest[:idx+len(nl)],
		Body:   rest[idx+len(closeSeq):],
		Had:    true,
	}, nil
}

// ParseYAML parses a raw header into a map. Calendar dates are returned as
// time.Time whether the YAML decoder resolved them or left them as strings.
func ParseYAML(header string) (map[string]any, error) {
	if strings.TrimSpace(header) == "" {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(header), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	if raw, ok := fields["date"]; ok {
		date, err := ParseDate(raw)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
	}
	return fields, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ErrInvalidDate indicates a date field that is not a parseable calendar date.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts time.Time or one of the supported string layouts.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, ErrInvalidDate
}

func detectNewline(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
