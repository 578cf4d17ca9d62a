package transport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SampleIdentity uniquely identifies a written sample: the GUID of the
// writer that produced it plus the sequence number the writer assigned.
// A reply carries the identity of the request it answers as its related
// identity, which makes SampleIdentity the request/reply correlation token.
type SampleIdentity struct {
	WriterGUID     uuid.UUID
	SequenceNumber uint64
}

var (
	// UnknownSampleIdentity is the zero identity. No writer ever assigns it.
	UnknownSampleIdentity = SampleIdentity{}

	errMalformedIdentity = errors.New("transport: malformed sample identity")
)

// IsUnknown reports whether id could not have been assigned by a writer.
func (id SampleIdentity) IsUnknown() bool {
	return id.SequenceNumber == 0 || id.WriterGUID == uuid.Nil
}

// Equal compares both the writer GUID and the sequence number.
func (id SampleIdentity) Equal(other SampleIdentity) bool {
	return id.WriterGUID == other.WriterGUID && id.SequenceNumber == other.SequenceNumber
}

func (id SampleIdentity) String() string {
	return id.WriterGUID.String() + ":" + strconv.FormatUint(id.SequenceNumber, 10)
}

// ParseSampleIdentity parses the output of SampleIdentity.String.
// An empty string parses to UnknownSampleIdentity.
func ParseSampleIdentity(s string) (SampleIdentity, error) {
	if s == "" {
		return UnknownSampleIdentity, nil
	}
	index := strings.LastIndex(s, ":")
	if index < 0 {
		return UnknownSampleIdentity, fmt.Errorf("%w: %q", errMalformedIdentity, s)
	}
	guid, err := uuid.Parse(s[:index])
	if err != nil {
		return UnknownSampleIdentity, fmt.Errorf("%w: %q: %v", errMalformedIdentity, s, err)
	}
	seq, err := strconv.ParseUint(s[index+1:], 10, 64)
	if err != nil {
		return UnknownSampleIdentity, fmt.Errorf("%w: %q: %v", errMalformedIdentity, s, err)
	}
	return SampleIdentity{WriterGUID: guid, SequenceNumber: seq}, nil
}

// NewGUID returns a fresh endpoint GUID.
func NewGUID() uuid.UUID {
	return uuid.New()
}
