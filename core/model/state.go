// Package model provides shared estimator infrastructure for sparsefit.
//
// The package contains the StateManager used by every estimator to track
// fitted state and training dimensions, plus a portable JSON document
// format for exporting and importing trained models.
//
// Estimators compose a StateManager rather than embedding a base struct:
//
//	type Lasso struct {
//		state *model.StateManager
//		// estimator-specific fields
//	}
//
// After successful training the estimator calls SetFitted and
// SetDimensions; prediction entry points gate on IsFitted.
package model

import "sync"

// StateManager tracks the fitted state and training dimensions of an
// estimator. It is safe for concurrent use.
type StateManager struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager creates a StateManager in the not-fitted state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether the estimator has been trained.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the estimator as trained. Called by estimator
// implementations at the end of a successful Fit.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
}

// SetDimensions records the training data shape for later validation.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// NFeatures returns the number of features seen during Fit.
func (s *StateManager) NFeatures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures
}

// NSamples returns the number of samples seen during Fit.
func (s *StateManager) NSamples() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nSamples
}

// Reset returns the estimator to its initial untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
}
