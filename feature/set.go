package feature

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrLengthMismatch = errors.New("feature length does not match set length")

// Set holds the generated column of every feature. Features are kept in insertion order
// which defines the column order of the design matrix.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

// NewSet creates an empty feature set
func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Set adds or replaces the data for a feature. The first feature fixes the number of
// observations of the set and every other feature must match it.
func (s *Set) Set(f Feature, data []float64) error {
	if len(s.labels) == 0 {
		s.m = len(data)
	}
	if len(data) != s.m {
		return fmt.Errorf("%s has %d observations, expected %d, %w", f, len(data), s.m, ErrLengthMismatch)
	}

	key := f.String()
	if _, exists := s.set[key]; !exists {
		s.labels = append(s.labels, f)
	}
	s.set[key] = data
	return nil
}

// Get returns the data for a feature along with whether it exists
func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.set[f.String()]
	return data, exists
}

// Update merges all features of other into the set
func (s *Set) Update(other *Set) error {
	if other == nil {
		return nil
	}
	for _, f := range other.labels {
		if err := s.Set(f, other.set[f.String()]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of features in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// M returns the number of observations of each feature
func (s *Set) M() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Labels returns the features of the set in column order
func (s *Set) Labels() *Labels {
	if s == nil {
		return nil
	}
	labels := make([]Feature, len(s.labels))
	copy(labels, s.labels)
	return NewLabels(labels)
}

// FilterByType returns a new set only containing features of the given type
func (s *Set) FilterByType(ft FeatureType) *Set {
	res := NewSet()
	if s == nil {
		return res
	}
	for _, f := range s.labels {
		if f.Type() != ft {
			continue
		}
		// lengths already agree
		_ = res.Set(f, s.set[f.String()])
	}
	return res
}

// Matrix returns a matrix representation of the set to be used with matrix methods.
// The matrix has m rows representing the number of observations and n columns representing
// the number of features.
func (s *Set) Matrix() *mat.Dense {
	if s.Len() == 0 || s.m == 0 {
		return nil
	}

	n := len(s.labels)
	obs := make([]float64, s.m*n)
	for j, f := range s.labels {
		for i, v := range s.set[f.String()] {
			obs[n*i+j] = v
		}
	}
	return mat.NewDense(s.m, n, obs)
}
