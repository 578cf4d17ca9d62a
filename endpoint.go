package rpc

import (
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/RidgeA/pubsub-rpc/transport"
)

type (
	// RequestInfo is filled by SendRequest with the token of the request and
	// read by SendReply for the token being answered.
	RequestInfo = transport.WriteParams

	Sample         = transport.Sample
	SampleIdentity = transport.SampleIdentity

	// endpoint holds what requesters and repliers share: the four substrate
	// entities and the back-reference to the service.
	endpoint struct {
		entity

		guid        uuid.UUID
		service     atomic.Pointer[Service]
		serviceName string
		participant *Participant
		adapter     *listenerAdapter
		createErr   error

		publisher  transport.Publisher
		writer     transport.DataWriter
		subscriber transport.Subscriber
		reader     transport.DataReader
	}
)

// ReplyTo returns the RequestInfo answering request.
func ReplyTo(request Sample) *RequestInfo {
	return &RequestInfo{RelatedSampleIdentity: request.Info.SampleIdentity}
}

func (e *endpoint) init(s *Service) {
	e.service.Store(s)
	e.serviceName = s.name
	e.participant = s.participant
}

// GUID is the GUID of the endpoint's writer.
func (e *endpoint) GUID() uuid.UUID {
	return e.guid
}

// Service returns nil once the endpoint has been deleted.
func (e *endpoint) Service() *Service {
	return e.service.Load()
}

func (e *endpoint) IsValid() bool {
	st := e.State()
	return st != StateInvalid && st != StateConstructing
}

// release deletes the writer and the reader, then their subscriber and
// publisher, and drops the service back-reference.
func (e *endpoint) release() error {
	t := e.participant.t

	var err error
	if e.writer != nil {
		err = multierr.Append(err, e.publisher.DeleteDataWriter(e.writer))
		e.writer = nil
	}
	if e.reader != nil {
		err = multierr.Append(err, e.subscriber.DeleteDataReader(e.reader))
		e.reader = nil
	}
	if e.subscriber != nil {
		err = multierr.Append(err, e.subscriber.DeleteContainedEntities())
		err = multierr.Append(err, t.DeleteSubscriber(e.subscriber))
		e.subscriber = nil
	}
	if e.publisher != nil {
		err = multierr.Append(err, e.publisher.DeleteContainedEntities())
		err = multierr.Append(err, t.DeletePublisher(e.publisher))
		e.publisher = nil
	}
	e.service.Store(nil)
	return err
}
