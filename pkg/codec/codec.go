// Package codec converts annotation sets to and from the persisted JSON
// document. The document has three top-level arrays, "arrows", "circles" and
// "text"; absent arrays are treated as empty. Annotations are an optional
// enhancement of a photo, so decoding never fails: missing, empty or
// malformed input hydrates to the canonical empty set.
package codec

import (
	json "github.com/goccy/go-json"

	"github.com/photomark/photomark/pkg/mark"
)

// document is the wire shape of a persisted annotation set.
type document struct {
	Arrows  []mark.Arrow  `json:"arrows"`
	Circles []mark.Circle `json:"circles"`
	Texts   []mark.Text   `json:"text"`
}

// Marshal serializes a set to its persisted JSON document. Round trips
// through Unmarshal are structurally lossless.
func Marshal(s mark.Set) ([]byte, error) {
	doc := document{
		Arrows:  s.Arrows,
		Circles: s.Circles,
		Texts:   s.Texts,
	}
	if doc.Arrows == nil {
		doc.Arrows = []mark.Arrow{}
	}
	if doc.Circles == nil {
		doc.Circles = []mark.Circle{}
	}
	if doc.Texts == nil {
		doc.Texts = []mark.Text{}
	}
	return json.Marshal(doc)
}

// Unmarshal hydrates a persisted document. Any input that cannot be decoded,
// including nil and empty input, yields the empty set.
func Unmarshal(data []byte) mark.Set {
	if len(data) == 0 {
		return mark.Empty()
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return mark.Empty()
	}
	return mark.Set{
		Arrows:  doc.Arrows,
		Circles: doc.Circles,
		Texts:   doc.Texts,
	}
}
