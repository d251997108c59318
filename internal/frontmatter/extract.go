// Package frontmatter splits an optional leading "---" metadata block from
// incident notes and writes metadata blocks back out.
//
// The block format is deliberately looser than YAML: notes are typed by
// hand, and values such as `title: Fix: port 443` must survive. Each line is
// a key, a colon, and a value; a value is a scalar, optionally quoted, or a
// bracketed list `[a, "b", 'c']`.
package frontmatter

import (
	"regexp"
	"strconv"
	"strings"
)

const delimiter = "---"

// literalPattern matches unquoted scalars that are written back without quotes.
var literalPattern = regexp.MustCompile(`^(?i:true|false|null|~)$|^[-+]?\d+(\.\d+)?$`)

// Extract splits a leading metadata block from text. The block is recognized
// only when the first non-empty line is exactly "---" and a later line is
// exactly "---". Otherwise Extract returns the text unchanged and found is
// false; a missing block is not an error.
func Extract(text string) (meta Metadata, body string, found bool) {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			start = i
			break
		}
	}
	if start == -1 || !isDelimiter(lines[start]) {
		return Metadata{}, text, false
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			end = i
			break
		}
	}
	if end == -1 {
		return Metadata{}, text, false
	}

	fields := make([]Field, 0, end-start-1)
	for _, line := range lines[start+1 : end] {
		if f, ok := parseField(line); ok {
			fields = append(fields, f)
		}
	}

	return New(fields...), strings.Join(lines[end+1:], "\n"), true
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == delimiter
}

// parseField reads one "key: value" line. Blank lines, comments and lines
// without a key are skipped.
func parseField(line string) (Field, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Field{}, false
	}
	idx := strings.IndexByte(trimmed, ':')
	if idx <= 0 {
		return Field{}, false
	}
	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		return Field{}, false
	}
	return Field{Key: key, Value: parseValue(strings.TrimSpace(trimmed[idx+1:]))}, true
}

func parseValue(raw string) Value {
	if len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']' {
		return List(splitList(raw[1 : len(raw)-1])...)
	}
	if isQuoted(raw) {
		return String(unquote(raw))
	}
	if literalPattern.MatchString(raw) {
		return Literal(raw)
	}
	return String(raw)
}

// splitList splits a bracketed list body on commas outside quotes. Elements
// are trimmed and unquoted; empty elements are dropped.
func splitList(body string) []string {
	var (
		items []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		item := strings.TrimSpace(cur.String())
		cur.Reset()
		if item == "" {
			return
		}
		if isQuoted(item) {
			item = unquote(item)
		}
		items = append(items, item)
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(body) {
				cur.WriteByte(c)
				i++
				cur.WriteByte(body[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return items
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == last && (first == '"' || first == '\'')
}

// unquote strips one layer of matching quotes. Double-quoted text has its
// escapes resolved when they are valid; single-quoted text folds '' to '.
func unquote(s string) string {
	if s[0] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
}
