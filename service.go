package rpc

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/RidgeA/pubsub-rpc/transport"
)

const (
	requestFilteredSuffix = "_RequestFiltered"
	replyFilteredInfix    = "_ReplyFiltered_"
)

// Service binds one Replier and any number of Requesters to a request and
// a reply topic. Topic fields are written once by newService.
type Service struct {
	entity

	participant *Participant
	factory     EndpointFactory

	name             string
	typeName         string
	requestTypeName  string
	replyTypeName    string
	requestTopicName string
	replyTopicName   string

	requestTopic         transport.Topic
	replyTopic           transport.Topic
	requestFilteredTopic transport.ContentFilteredTopic

	mu              sync.Mutex
	replier         Replier
	replierReserved bool
	requesters      []Requester

	// detached requesters are forgotten by RemoveRequester but still use
	// the reply topic; destroy deletes them.
	detached map[uuid.UUID]Requester
}

func newService(p *Participant, name, typeName string, f EndpointFactory) (*Service, error) {
	s := &Service{
		participant:      p,
		factory:          f,
		name:             name,
		typeName:         typeName,
		requestTypeName:  typeName + requestSuffix,
		replyTypeName:    typeName + replySuffix,
		requestTopicName: name + requestSuffix,
		replyTopicName:   name + replySuffix,
	}

	if err := s.createRequestReplyTopics(); err != nil {
		s.settle(false)
		if rerr := s.deleteTopics(); rerr != nil {
			p.errorf("Unable to release topics of service %s: %s", name, rerr)
		}
		return nil, fmt.Errorf("%w: service %s: %w", ErrEntityCreation, name, err)
	}

	s.settle(true)
	return s, nil
}

func (s *Service) createRequestReplyTopics() error {
	t := s.participant.t

	var err error
	if s.requestTopic, err = t.CreateTopic(s.requestTopicName, s.requestTypeName, transport.TopicQos{}); err != nil {
		return err
	}
	if s.replyTopic, err = t.CreateTopic(s.replyTopicName, s.replyTypeName, transport.TopicQos{}); err != nil {
		return err
	}
	s.requestFilteredTopic, err = t.CreateContentFilteredTopic(s.name+requestFilteredSuffix, s.requestTopic, transport.MatchAll())
	return err
}

// createReplyFilteredTopic derives the reply view of the requester whose
// writer is guid.
func (s *Service) createReplyFilteredTopic(guid uuid.UUID) (transport.ContentFilteredTopic, error) {
	return s.participant.t.CreateContentFilteredTopic(
		s.name+replyFilteredInfix+guid.String(),
		s.replyTopic,
		transport.RelatedTo(guid),
	)
}

func (s *Service) deleteTopics() error {
	t := s.participant.t

	var err error
	if s.requestFilteredTopic != nil {
		err = multierr.Append(err, t.DeleteTopic(s.requestFilteredTopic))
		s.requestFilteredTopic = nil
	}
	if s.replyTopic != nil {
		err = multierr.Append(err, t.DeleteTopic(s.replyTopic))
		s.replyTopic = nil
	}
	if s.requestTopic != nil {
		err = multierr.Append(err, t.DeleteTopic(s.requestTopic))
		s.requestTopic = nil
	}
	return err
}

func (s *Service) Name() string {
	return s.name
}

func (s *Service) TypeName() string {
	return s.typeName
}

func (s *Service) ServiceTypeInUse(typeName string) bool {
	return s.typeName == typeName
}

func (s *Service) IsValid() bool {
	st := s.State()
	return st != StateInvalid && st != StateConstructing
}

func (s *Service) IsActive() bool {
	return s.IsEnabled()
}

// CreateRequester validates params and builds a requester. No requester is
// registered when validation or any substrate step fails.
func (s *Service) CreateRequester(params RequesterParams) (Requester, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := s.validate(params.Qos.EndpointQos); err != nil {
		s.participant.errorf("Requester parameters rejected by service %s: %s", s.name, err)
		s.participant.metrics.creationFailed(s.name, "requester")
		return nil, err
	}

	base := newRequester(s, params)
	if !base.IsValid() {
		return nil, s.discardRequester(base, base.createErr)
	}

	r := s.factory.requester(base)
	if r == nil {
		return nil, s.discardRequester(base, fmt.Errorf("endpoint factory of %s returned no requester", s.typeName))
	}
	base.adapter.setOwner(r)

	s.mu.Lock()
	s.requesters = append(s.requesters, r)
	s.mu.Unlock()

	s.participant.debug("Requester %s attached to service %s", base.guid, s.name)
	return r, nil
}

func (s *Service) discardRequester(r *requester, cause error) error {
	if err := r.destroy(); err != nil {
		s.participant.errorf("Unable to release requester of service %s: %s", s.name, err)
	}
	s.participant.errorf("Unable to create requester for service %s: %s", s.name, cause)
	s.participant.metrics.creationFailed(s.name, "requester")
	return fmt.Errorf("%w: requester: %w", ErrEntityCreation, cause)
}

// CreateReplier validates params and builds the single replier of s.
func (s *Service) CreateReplier(params ReplierParams) (Replier, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := s.validate(params.Qos.EndpointQos); err != nil {
		s.participant.errorf("Replier parameters rejected by service %s: %s", s.name, err)
		s.participant.metrics.creationFailed(s.name, "replier")
		return nil, err
	}

	s.mu.Lock()
	if s.replier != nil || s.replierReserved {
		s.mu.Unlock()
		return nil, ErrReplierExists
	}
	s.replierReserved = true
	s.mu.Unlock()

	var r Replier
	base := newReplier(s, params)
	if base.IsValid() {
		r = s.factory.replier(base)
	}

	s.mu.Lock()
	s.replierReserved = false
	if r != nil {
		s.replier = r
	}
	s.mu.Unlock()

	if r == nil {
		cause := base.createErr
		if cause == nil {
			cause = fmt.Errorf("endpoint factory of %s returned no replier", s.typeName)
		}
		if err := base.destroy(); err != nil {
			s.participant.errorf("Unable to release replier of service %s: %s", s.name, err)
		}
		s.participant.errorf("Unable to create replier for service %s: %s", s.name, cause)
		s.participant.metrics.creationFailed(s.name, "replier")
		return nil, fmt.Errorf("%w: replier: %w", ErrEntityCreation, cause)
	}

	base.adapter.setOwner(r)
	s.participant.debug("Replier %s attached to service %s", base.guid, s.name)
	return r, nil
}

func (s *Service) GetReplier() Replier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replier
}

// GetRequesters returns a snapshot of the attached requesters.
func (s *Service) GetRequesters() []Requester {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Requester, len(s.requesters))
	copy(out, s.requesters)
	return out
}

// RemoveRequester takes r out of GetRequesters without deleting it.
// Removing a requester that is not attached is a no-op. The requester keeps
// working until DeleteRequester or the deletion of the service.
func (s *Service) RemoveRequester(r Requester) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if removed := s.detachLocked(r.GUID()); removed != nil {
		if s.detached == nil {
			s.detached = make(map[uuid.UUID]Requester)
		}
		s.detached[removed.GUID()] = removed
	}
}

// forgetRequester drops every reference the service holds to guid.
func (s *Service) forgetRequester(guid uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked(guid)
	delete(s.detached, guid)
}

func (s *Service) detachLocked(guid uuid.UUID) Requester {
	for i, r := range s.requesters {
		if r.GUID() == guid {
			s.requesters = append(s.requesters[:i], s.requesters[i+1:]...)
			return r
		}
	}
	return nil
}

// RemoveAllRequesters detaches every requester and deletes it.
func (s *Service) RemoveAllRequesters() error {
	s.mu.Lock()
	requesters := s.requesters
	s.requesters = nil
	s.mu.Unlock()

	var err error
	for _, r := range requesters {
		err = multierr.Append(err, r.base().destroy())
	}
	return err
}

// DeleteRequester detaches r and releases its substrate entities.
func (s *Service) DeleteRequester(r Requester) error {
	if r == nil {
		return ErrBadParameter
	}
	base := r.base()
	if base.service.Load() != s {
		return fmt.Errorf("%w: requester %s does not belong to service %s", ErrBadParameter, base.guid, s.name)
	}
	s.forgetRequester(base.guid)
	return base.destroy()
}

func (s *Service) DeleteReplier(r Replier) error {
	if r == nil {
		return ErrBadParameter
	}
	base := r.base()

	s.mu.Lock()
	if s.replier == nil || s.replier.GUID() != base.guid {
		s.mu.Unlock()
		return fmt.Errorf("%w: replier %s does not belong to service %s", ErrBadParameter, base.guid, s.name)
	}
	s.replier = nil
	s.mu.Unlock()

	return base.destroy()
}

// destroy deletes the endpoints before the topics they were built on.
func (s *Service) destroy() error {
	var err error
	s.terminate(func() {
		s.mu.Lock()
		replier := s.replier
		s.replier = nil
		s.mu.Unlock()

		if replier != nil {
			err = multierr.Append(err, replier.base().destroy())
		}
		err = multierr.Append(err, s.RemoveAllRequesters())

		s.mu.Lock()
		detached := s.detached
		s.detached = nil
		s.mu.Unlock()
		for _, r := range detached {
			err = multierr.Append(err, r.base().destroy())
		}
		err = multierr.Append(err, s.deleteTopics())
	})
	return err
}
