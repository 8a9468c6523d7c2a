package table

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk encoding of a table.
type Format string

// Supported table formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// entry is one table value after normalization. usable is false for values
// that are present but falsy (empty string, zero, false, null) or nested.
type entry struct {
	value  string
	usable bool
}

// Table maps translation keys to display values. The zero value is an
// empty table. A Table is read-only once built.
type Table struct {
	entries map[string]entry
}

// New builds a Table from plain string pairs. Empty strings are kept but
// never resolve.
func New(values map[string]string) *Table {
	t := &Table{entries: make(map[string]entry, len(values))}
	for k, v := range values {
		t.entries[k] = entry{value: v, usable: v != ""}
	}
	return t
}

// Lookup returns the display value for key. The second result is false both
// when the key is absent and when its value is falsy.
func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	e, ok := t.entries[key]
	if !ok || !e.usable {
		return "", false
	}
	return e.value, true
}

// Len returns the number of keys, including those with falsy values.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatFor picks a Format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and parses the table file at path, choosing the decoder from
// the file extension.
func Load(path string) (*Table, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	t, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes data in the given format. The top-level value must be an
// object; anything else fails as a whole.
func Parse(format Format, data []byte) (*Table, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatTOML:
		return ParseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// ParseJSON decodes a JSON object into a Table.
func ParseJSON(data []byte) (*Table, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &parseError{kind: ErrMalformed, cause: err}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &parseError{kind: ErrNotObject}
	}
	return fromMap(obj), nil
}

// ParseYAML decodes a YAML mapping into a Table.
func ParseYAML(data []byte) (*Table, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &parseError{kind: ErrMalformed, cause: err}
	}
	switch obj := raw.(type) {
	case map[string]any:
		return fromMap(obj), nil
	case map[any]any:
		conv := make(map[string]any, len(obj))
		for k, v := range obj {
			conv[fmt.Sprint(k)] = v
		}
		return fromMap(conv), nil
	default:
		return nil, &parseError{kind: ErrNotObject}
	}
}

// ParseTOML decodes a TOML document into a Table. A TOML document is always
// a table at the top level, so only syntax errors can fail.
func ParseTOML(data []byte) (*Table, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &parseError{kind: ErrMalformed, cause: err}
	}
	return fromMap(raw), nil
}

func fromMap(obj map[string]any) *Table {
	t := &Table{entries: make(map[string]entry, len(obj))}
	for k, v := range obj {
		s, usable := stringify(v)
		t.entries[k] = entry{value: s, usable: usable}
	}
	return t
}

// stringify renders a decoded scalar the way it would appear when
// interpolated into a label, and reports whether the value is truthy.
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case bool:
		if !x {
			return "", false
		}
		return "true", true
	case float64:
		if x == 0 || math.IsNaN(x) {
			return "", false
		}
		return formatNumber(x), true
	case float32:
		return stringify(float64(x))
	case int:
		return strconv.Itoa(x), x != 0
	case int64:
		return strconv.FormatInt(x, 10), x != 0
	case uint64:
		return strconv.FormatUint(x, 10), x != 0
	case map[string]any, map[any]any, []any:
		// Nested values are not flattened.
		return "", false
	default:
		s := fmt.Sprint(x)
		return s, s != ""
	}
}

// formatNumber renders x with the shortest round-trip digits, switching to
// exponent notation outside [1e-6, 1e21) the way number-to-string
// conversion does in script hosts: 1e+21, 1.5e-7.
func formatNumber(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}

	if abs := math.Abs(x); abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(x, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
