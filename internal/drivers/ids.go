package drivers

import (
	"github.com/digimosa/dsp-scorecard/internal/extractor"
)

// Scheme validates driver IDs. Documents of the newer report generation use
// fixed fourteen character IDs, older ones anything from six characters up.
type Scheme struct {
	Strict bool
}

// Valid reports whether id is acceptable under the scheme.
func (s Scheme) Valid(id string) bool {
	if s.Strict {
		return extractor.IsStrictID(id)
	}
	return extractor.IsIDShaped(id)
}

func (s Scheme) String() string {
	if s.Strict {
		return "strict"
	}
	return "legacy"
}

// minStrictIDs is how many distinct fourteen character IDs a document needs
// before it is treated as using the newer scheme.
const minStrictIDs = 2

// DetectScheme inspects all ID-shaped tokens of text. The strict scheme is
// chosen when enough distinct strict IDs exist and they make up at least
// four fifths of the ID-shaped tokens.
func DetectScheme(text string) Scheme {
	shaped := make(map[string]bool)
	strict := 0
	for _, tok := range extractor.IDTokenRegex.FindAllString(text, -1) {
		if !extractor.IsIDShaped(tok) || shaped[tok] {
			continue
		}
		shaped[tok] = true
		if extractor.IsStrictID(tok) {
			strict++
		}
	}
	if strict < minStrictIDs {
		return Scheme{}
	}
	return Scheme{Strict: strict*5 >= len(shaped)*4}
}
