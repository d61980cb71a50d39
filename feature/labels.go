package feature

import "slices"

// Labels is an ordered feature list whose positions match the design matrix columns and the
// fitted coefficients.
type Labels struct {
	labels []Feature
	pos    map[string]int
}

// NewLabels indexes the features by their string form. A repeated feature keeps its last position.
func NewLabels(labels []Feature) *Labels {
	pos := make(map[string]int, len(labels))
	for i, f := range labels {
		pos[f.String()] = i
	}
	return &Labels{labels: labels, pos: pos}
}

func (l *Labels) Len() int {
	return len(l.labels)
}

// Labels returns a copy of the ordered features
func (l *Labels) Labels() []Feature {
	return slices.Clone(l.labels)
}

// Index returns the column of the feature or -1 if absent
func (l *Labels) Index(f Feature) (int, bool) {
	i, ok := l.pos[f.String()]
	if !ok {
		return -1, false
	}
	return i, true
}
