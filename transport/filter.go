package transport

import (
	"sync"

	"github.com/google/uuid"
)

// IdentityFilter is the content filter of a ContentFilteredTopic. It either
// accepts every sample or only samples whose related identity was written by
// a given writer and belongs to the set of tokens currently admitted.
//
// The token set is mutated while readers evaluate it, so all access is
// synchronized.
type IdentityFilter struct {
	all    bool
	writer uuid.UUID

	mu       sync.RWMutex
	accepted map[SampleIdentity]struct{}
}

// MatchAll returns a filter that accepts every sample.
func MatchAll() *IdentityFilter {
	return &IdentityFilter{all: true}
}

// RelatedTo returns a filter accepting samples whose related identity is
// one of the admitted tokens of writer. It starts empty.
func RelatedTo(writer uuid.UUID) *IdentityFilter {
	return &IdentityFilter{
		writer:   writer,
		accepted: make(map[SampleIdentity]struct{}),
	}
}

func (f *IdentityFilter) IsMatchAll() bool {
	return f.all
}

// Writer is the GUID the filter is scoped to, uuid.Nil for MatchAll.
func (f *IdentityFilter) Writer() uuid.UUID {
	return f.writer
}

// Add admits a token. It reports false, admitting nothing, for a MatchAll
// filter or a token of another writer.
func (f *IdentityFilter) Add(id SampleIdentity) bool {
	if f.all || id.WriterGUID != f.writer {
		return false
	}
	f.mu.Lock()
	f.accepted[id] = struct{}{}
	f.mu.Unlock()
	return true
}

func (f *IdentityFilter) Remove(id SampleIdentity) {
	if f.all {
		return
	}
	f.mu.Lock()
	delete(f.accepted, id)
	f.mu.Unlock()
}

func (f *IdentityFilter) Contains(id SampleIdentity) bool {
	if f.all {
		return true
	}
	f.mu.RLock()
	_, ok := f.accepted[id]
	f.mu.RUnlock()
	return ok
}

func (f *IdentityFilter) Len() int {
	if f.all {
		return 0
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.accepted)
}

// Identities returns a copy of the admitted tokens.
func (f *IdentityFilter) Identities() []SampleIdentity {
	if f.all {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]SampleIdentity, 0, len(f.accepted))
	for id := range f.accepted {
		ids = append(ids, id)
	}
	return ids
}

// MatchesWriter is the coarse part of the predicate, usable by substrates
// that can only route on the related writer.
func (f *IdentityFilter) MatchesWriter(related SampleIdentity) bool {
	return f.all || related.WriterGUID == f.writer
}

func (f *IdentityFilter) Match(info SampleInfo) bool {
	if f.all {
		return true
	}
	if !f.MatchesWriter(info.RelatedSampleIdentity) {
		return false
	}
	return f.Contains(info.RelatedSampleIdentity)
}
