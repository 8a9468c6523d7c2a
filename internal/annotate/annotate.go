// Package annotate finds translation calls of the form t('key') in source
// text and turns the ones with a resolvable key into inline annotations.
//
// Compute is a pure function of (text, table): nothing is cached between
// calls, and the result is rebuilt from scratch on every invocation.
package annotate

import (
	"regexp"

	"github.com/modu-ai/showtrans/internal/table"
)

// callPattern matches t('key') where key is one or more word or whitespace
// characters. Whitespace is the ECMAScript set, which is wider than RE2's \s:
// it adds \v, the Unicode space separators, the line and paragraph
// separators and the byte order mark. The key group cannot be empty, so
// matches never have zero width.
var callPattern = regexp.MustCompile(`t\('([A-Za-z0-9_` + keySpace + `]+)'\)`)

// keySpace is the whitespace class accepted inside keys.
const keySpace = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

// openLen is the length of the literal t(' prefix.
const openLen = len("t('")

// LabelPrefix is prepended to every resolved value.
const LabelPrefix = ":"

// Kind classifies an annotation for the renderer.
type Kind int

// KindParameter follows the LSP InlayHintKind numbering.
const KindParameter Kind = 2

// Match is one located t('key') occurrence.
type Match struct {
	Key string
	// Start and End delimit the full t('key') text as byte offsets.
	Start int
	End   int
}

// Anchor returns the offset right after the key, before the closing ').
func (m Match) Anchor() int {
	return m.Start + openLen + len(m.Key)
}

// Annotation is a label attached to a document offset.
type Annotation struct {
	Offset      int
	Label       string
	Key         string
	Kind        Kind
	PaddingLeft bool
}

// Lookup resolves translation keys. The bool result must be false for keys
// that are absent and for keys whose value should not be shown.
type Lookup interface {
	Lookup(key string) (string, bool)
}

// Scan returns every t('key') occurrence in text, left to right, without
// overlap.
func Scan(text string) []Match {
	locs := callPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{
			Key:   text[loc[2]:loc[3]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return matches
}

// Compute returns one annotation per occurrence whose key resolves in tbl,
// in scan order. Repeated keys produce repeated annotations.
func Compute(text string, tbl Lookup) []Annotation {
	var out []Annotation
	for _, m := range Scan(text) {
		value, ok := tbl.Lookup(m.Key)
		if !ok {
			continue
		}
		out = append(out, Annotation{
			Offset:      m.Anchor(),
			Label:       LabelPrefix + value,
			Key:         m.Key,
			Kind:        KindParameter,
			PaddingLeft: true,
		})
	}
	return out
}

// Missing returns the occurrences Compute would skip.
func Missing(text string, tbl Lookup) []Match {
	var out []Match
	for _, m := range Scan(text) {
		if _, ok := tbl.Lookup(m.Key); !ok {
			out = append(out, m)
		}
	}
	return out
}

// ComputeFromJSON parses data as a JSON translation table and annotates text
// with it. A parse failure yields no annotations at all.
func ComputeFromJSON(text string, data []byte) ([]Annotation, error) {
	tbl, err := table.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return Compute(text, tbl), nil
}
