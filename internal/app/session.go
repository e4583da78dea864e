package app

import (
	"fmt"
	"sync"

	"waypoint/internal/domain"
)

// LocationState models the location-permission flow:
//
//	idle -> requesting -> granted | denied
//
// idle is the initial state and is where the prompt shows. requesting is
// entered only on explicit user action; it resolves to granted (coordinates
// available) or denied (error, retry stays available). There is no automatic
// retry and no timeout transition.
type LocationState string

const (
	LocationIdle       LocationState = "idle"
	LocationRequesting LocationState = "requesting"
	LocationGranted    LocationState = "granted"
	LocationDenied     LocationState = "denied"
)

// LocationSession is an explicit observable store for the permission flow.
// Observers fire on every transition; the discover pipeline re-runs off the
// granted notification rather than any framework re-render.
type LocationSession struct {
	mu        sync.Mutex
	state     LocationState
	coords    *domain.Coords
	reason    string
	observers []func(LocationState, *domain.Coords)
}

func NewLocationSession() *LocationSession {
	return &LocationSession{state: LocationIdle}
}

func (s *LocationSession) State() LocationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Coords returns the granted position, nil unless state is granted.
func (s *LocationSession) Coords() *domain.Coords {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coords == nil {
		return nil
	}
	c := *s.coords
	return &c
}

// Reason is the human-readable denial message, empty outside denied.
func (s *LocationSession) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Observe registers fn for transition notifications.
func (s *LocationSession) Observe(fn func(LocationState, *domain.Coords)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Request starts the one-shot location request. Legal from idle and from
// denied (retry); anything else is a flow bug surfaced as an error.
func (s *LocationSession) Request() error {
	return s.transition(func() error {
		if s.state != LocationIdle && s.state != LocationDenied {
			return fmt.Errorf("location request from %s", s.state)
		}
		s.state = LocationRequesting
		s.reason = ""
		return nil
	})
}

// Grant resolves the in-flight request with coordinates.
func (s *LocationSession) Grant(c domain.Coords) error {
	return s.transition(func() error {
		if s.state != LocationRequesting {
			return fmt.Errorf("location grant from %s", s.state)
		}
		s.state = LocationGranted
		s.coords = &c
		return nil
	})
}

// Deny resolves the in-flight request with a failure. The prompt stays
// dismissible and Request remains legal afterwards.
func (s *LocationSession) Deny(reason string) error {
	return s.transition(func() error {
		if s.state != LocationRequesting {
			return fmt.Errorf("location deny from %s", s.state)
		}
		s.state = LocationDenied
		s.coords = nil
		s.reason = reason
		return nil
	})
}

func (s *LocationSession) transition(apply func() error) error {
	s.mu.Lock()
	if err := apply(); err != nil {
		s.mu.Unlock()
		return err
	}
	state := s.state
	var coords *domain.Coords
	if s.coords != nil {
		c := *s.coords
		coords = &c
	}
	observers := append([]func(LocationState, *domain.Coords){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(state, coords)
	}
	return nil
}
