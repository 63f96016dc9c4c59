// Package availability computes the set of resources a booking draft may
// select, either from the reservation service's eligibility check or from a
// capacity-only local fallback when the service cannot answer.
package availability

import (
	"time"

	"concierge/internal/domains/catalog/model"
)

const (
	// TagAvailable marks a resource the reservation service confirmed free
	// for the requested range.
	TagAvailable = "available"

	// TagCurrent marks the resource already held by the reservation being
	// edited. It stays selectable even when otherwise ineligible.
	TagCurrent = "current"
)

// Entry is one selectable resource with its eligibility tag.
type Entry struct {
	model.Resource
	Tag string `json:"tag"`
}

// Set is the outcome of one availability evaluation. Fallback is true when the
// entries came from the local capacity filter instead of the service.
type Set struct {
	Entries    []Entry `json:"entries"`
	Fallback   bool    `json:"fallback"`
	Generation uint64  `json:"-"`
}

// Contains reports whether the resource id is selectable in this set.
func (s Set) Contains(id string) bool {
	for _, e := range s.Entries {
		if e.ID == id {
			return true
		}
	}

	return false
}

// Find returns the entry for the given resource id.
func (s Set) Find(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}

	return Entry{}, false
}

// Params is one input tuple for an availability evaluation. Candidates is the
// full local resource list of the kind, used for the fallback filter and for
// synthesizing the edited reservation's resource.
type Params struct {
	Kind               string
	Start              time.Time
	End                time.Time
	PartySize          int
	Edit               bool
	OriginalResourceID string
	Candidates         []model.Resource
}

// Complete reports whether the tuple carries everything the reservation
// service needs. Incomplete tuples never reach the service.
func (p Params) Complete() bool {
	return p.PartySize > 0 && !p.Start.IsZero() && !p.End.IsZero() && p.Start.Before(p.End)
}

// Merge turns the service's eligible list into a Set, applying the edit-mode
// guarantee: the original resource is always present and tagged current, even
// when the service no longer lists it.
func Merge(eligible []model.Resource, p Params) Set {
	entries := make([]Entry, 0, len(eligible))
	originalSeen := false

	for _, r := range eligible {
		tag := TagAvailable
		if p.Edit && r.ID == p.OriginalResourceID {
			tag = TagCurrent
			originalSeen = true
		}

		entries = append(entries, Entry{Resource: r, Tag: tag})
	}

	if p.Edit && !originalSeen && p.OriginalResourceID != "" {
		entries = append([]Entry{{Resource: findCandidate(p), Tag: TagCurrent}}, entries...)
	}

	return Set{Entries: entries}
}

// Fallback builds a Set from the local candidates alone. Without the service
// there is no overlap information, so the only filter is capacity; the
// edit-mode original is kept regardless.
func Fallback(p Params) Set {
	entries := make([]Entry, 0, len(p.Candidates))
	originalSeen := false

	for _, r := range p.Candidates {
		if p.Edit && r.ID == p.OriginalResourceID {
			entries = append(entries, Entry{Resource: r, Tag: TagCurrent})
			originalSeen = true

			continue
		}

		if !r.Fits(p.PartySize) {
			continue
		}

		entries = append(entries, Entry{Resource: r, Tag: TagAvailable})
	}

	if p.Edit && !originalSeen && p.OriginalResourceID != "" {
		entries = append([]Entry{{Resource: findCandidate(p), Tag: TagCurrent}}, entries...)
	}

	return Set{Entries: entries, Fallback: true}
}

// findCandidate resolves the edited reservation's resource from the local
// list, or a bare placeholder when even the local list no longer has it.
func findCandidate(p Params) model.Resource {
	for _, r := range p.Candidates {
		if r.ID == p.OriginalResourceID {
			return r
		}
	}

	return model.Resource{ID: p.OriginalResourceID, Kind: p.Kind, Label: p.OriginalResourceID}
}
