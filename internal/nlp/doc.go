// Package nlp runs submitted text through an ordered pipeline of named
// stages. Stages annotate a Doc through named extension slots; the sentiment
// stage delegates to an external Classifier and stores its verdict under
// the "sentiment" extension.
package nlp

// Doc is a single piece of text moving through a Pipeline.
type Doc struct {
	Text string

	ext map[string]any
}

// NewDoc creates a Doc for text with no extensions set.
func NewDoc(text string) *Doc {
	return &Doc{Text: text, ext: make(map[string]any)}
}

// Set stores value under the named extension, replacing any previous value.
func (d *Doc) Set(name string, value any) {
	if d.ext == nil {
		d.ext = make(map[string]any)
	}
	d.ext[name] = value
}

// Get returns the named extension, or nil when no stage has set it.
func (d *Doc) Get(name string) any {
	return d.ext[name]
}

func (d *Doc) Has(name string) bool {
	_, ok := d.ext[name]
	return ok
}
