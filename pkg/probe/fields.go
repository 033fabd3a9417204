package probe

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/NVIDIA/hostprobe/pkg/errors"
	"github.com/NVIDIA/hostprobe/pkg/source"
)

// fields converts raw values to typed fields. A value that is present but
// unusable is logged and replaced by the field default.
type fields struct {
	log *slog.Logger
	id  source.ID
}

func (f fields) fail(field, raw string, cause error) {
	f.log.Debug("field default applied",
		slog.String("source", string(f.id)),
		slog.String("field", field),
		slog.String("raw", raw),
		slog.Any("error", errors.WrapWithContext(errors.ErrCodeFieldParse,
			"field could not be parsed", cause, map[string]any{"field": field})),
	)
}

func (f fields) addressFail(field, raw string, cause error) {
	f.log.Debug("address decoded with zeroed tokens",
		slog.String("source", string(f.id)),
		slog.String("field", field),
		slog.String("raw", raw),
		slog.Any("error", errors.WrapWithContext(errors.ErrCodeAddressDecode,
			"address could not be decoded", cause, map[string]any{"field": field})),
	)
}

// prefix bounds a prefix length to the address width.
func (f fields) prefix(field string, v uint64, bits int) uint8 {
	if v > uint64(bits) {
		f.fail(field, strconv.FormatUint(v, 10), strconv.ErrRange)
		return uint8(bits)
	}
	return uint8(v)
}

// name returns s, or Placeholder when s is blank.
func (f fields) name(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}

// text reads a name from a keyed field mapping.
func (f fields) text(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return f.name(v)
	case nil:
		return Placeholder
	default:
		return f.name(strings.TrimSpace(toString(v)))
	}
}

// nodeText reads a name from a tree node.
func (f fields) nodeText(n *source.Node, key string) string {
	s, _ := n.Text(key)
	return f.name(s)
}

// nodeUint reads an unsigned field from a tree node. Absent and null values
// are 0 without a log entry.
func (f fields) nodeUint(n *source.Node, key string) uint64 {
	v, _, err := n.Uint(key)
	if err != nil {
		raw, _ := n.Text(key)
		f.fail(key, raw, err)
		return 0
	}
	return v
}

// anyUint reads an unsigned field from a keyed field mapping.
func (f fields) anyUint(m map[string]any, key string) uint64 {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0
	}
	v, err := source.ToUint(raw)
	if err != nil {
		f.fail(key, toString(raw), err)
		return 0
	}
	return v
}

// parseUint parses a decimal unsigned integer of the given bit size.
func (f fields) parseUint(field, s string, bits int) uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		f.fail(field, s, err)
		return 0
	}
	return v
}

// parseHex parses a hexadecimal unsigned integer.
func (f fields) parseHex(field, s string) uint64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		f.fail(field, s, err)
		return 0
	}
	return v
}

// parseFloat parses a decimal number.
func (f fields) parseFloat(field, s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.fail(field, s, err)
		return 0
	}
	return v
}

// line returns lines[i] or an empty string when the line is missing.
func line(lines []string, i int) string {
	if i < len(lines) {
		return strings.TrimSpace(lines[i])
	}
	return ""
}

func toString(v any) string {
	n := source.NewNode("", map[string]any{"v": v})
	s, _ := n.Text("v")
	return s
}
