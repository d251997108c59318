package frontmatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-incidentmd/internal/yamlutil"
)

// Kind tells how a Value is written back out.
type Kind int

const (
	KindString  Kind = iota // double-quoted scalar
	KindLiteral             // bare scalar: bool, number, null
	KindList                // bracketed list of quoted strings
)

// Value is a frontmatter value: a scalar or a list of strings.
type Value struct {
	kind   Kind
	scalar string
	items  []string
}

// String returns a quoted string value.
func String(s string) Value { return Value{kind: KindString, scalar: s} }

// Literal returns a value written without quotes (true, 42, null).
func Literal(s string) Value { return Value{kind: KindLiteral, scalar: s} }

// List returns a list value. The items are copied.
func List(items ...string) Value {
	return Value{kind: KindList, items: append([]string{}, items...)}
}

func (v Value) Kind() Kind { return v.kind }

// Scalar returns the unquoted scalar text, or "" for lists.
func (v Value) Scalar() string { return v.scalar }

// Items returns a copy of the list items, or nil for scalars.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string{}, v.items...)
}

func (v Value) IsList() bool { return v.kind == KindList }

// render writes the value in its frontmatter form.
func (v Value) render() string {
	switch v.kind {
	case KindLiteral:
		return v.scalar
	case KindList:
		quoted := make([]string, len(v.items))
		for i, item := range v.items {
			quoted[i] = strconv.Quote(item)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return strconv.Quote(v.scalar)
	}
}

// Field is one key/value pair of a Metadata block.
type Field struct {
	Key   string
	Value Value
}

// Metadata is an ordered set of frontmatter fields. The zero value is an
// empty block. Metadata is never modified in place: With returns a copy.
type Metadata struct {
	fields []Field
}

// New builds Metadata from fields in order. A repeated key keeps the
// position of its first occurrence and the value of its last.
func New(fields ...Field) Metadata {
	var m Metadata
	for _, f := range fields {
		m = m.With(f.Key, f.Value)
	}
	return m
}

// With returns a copy of m with key set to v.
func (m Metadata) With(key string, v Value) Metadata {
	out := Metadata{fields: make([]Field, len(m.fields), len(m.fields)+1)}
	copy(out.fields, m.fields)
	for i := range out.fields {
		if out.fields[i].Key == key {
			out.fields[i].Value = v
			return out
		}
	}
	out.fields = append(out.fields, Field{Key: key, Value: v})
	return out
}

// Get returns the value stored under key.
func (m Metadata) Get(key string) (Value, bool) {
	for _, f := range m.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the keys in order.
func (m Metadata) Keys() []string {
	keys := make([]string, len(m.fields))
	for i, f := range m.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the fields in order.
func (m Metadata) Fields() []Field {
	return append([]Field{}, m.fields...)
}

func (m Metadata) Len() int { return len(m.fields) }

func (m Metadata) IsEmpty() bool { return len(m.fields) == 0 }

// Format serializes the block between "---" delimiter lines, one field per
// line, ending with a newline.
func (m Metadata) Format() string {
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	for _, f := range m.fields {
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value.render())
		b.WriteByte('\n')
	}
	b.WriteString(delimiter + "\n")
	return b.String()
}

// FromYAML converts an ordered YAML mapping into Metadata. Strings stay
// strings, booleans and numbers become literals, sequences become lists.
func FromYAML(kvs []yamlutil.KeyValue) Metadata {
	fields := make([]Field, 0, len(kvs))
	for _, kv := range kvs {
		fields = append(fields, Field{Key: kv.Key, Value: valueOf(kv.Value)})
	}
	return New(fields...)
}

func valueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return Literal("null")
	case string:
		return String(val)
	case bool, int, int64, uint64, float64:
		return Literal(fmt.Sprint(val))
	case time.Time:
		return String(val.Format("2006-01-02"))
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = fmt.Sprint(item)
		}
		return List(items...)
	default:
		return String(fmt.Sprint(val))
	}
}
