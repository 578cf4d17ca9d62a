package rpc

import (
	"go.uber.org/multierr"

	"github.com/RidgeA/pubsub-rpc/transport"
)

type RetentionPolicy int

const (
	// RetainUntilTaken drops a request token from the reply filter as soon as
	// a reply for it is taken.
	RetainUntilTaken RetentionPolicy = iota
	// RetainUntilClosed keeps every token until the requester is deleted, so
	// a request may be answered more than once.
	RetainUntilClosed
)

const defaultRetiredCacheSize = 1024

type (
	// EndpointQos is the part of the parameters a Service checks before it
	// builds an endpoint.
	EndpointQos struct {
		ServiceName      string
		RequestType      string
		ReplyType        string
		RequestTopicName string
		ReplyTopicName   string

		WriterQos     transport.DataWriterQos
		ReaderQos     transport.DataReaderQos
		PublisherQos  transport.PublisherQos
		SubscriberQos transport.SubscriberQos
	}

	RequesterQos struct {
		EndpointQos
	}

	ReplierQos struct {
		EndpointQos
	}

	RequesterParams struct {
		Qos       RequesterQos
		Listener  Listener
		Retention RetentionPolicy
		// RetiredCacheSize bounds the set of answered tokens remembered to
		// tell duplicate replies from unrelated ones.
		RetiredCacheSize int
	}

	ReplierParams struct {
		Qos      ReplierQos
		Listener Listener
	}
)

func (s *Service) endpointQos() EndpointQos {
	return EndpointQos{
		ServiceName:      s.name,
		RequestType:      s.requestTypeName,
		ReplyType:        s.replyTypeName,
		RequestTopicName: s.requestTopicName,
		ReplyTopicName:   s.replyTopicName,
		WriterQos:        transport.DefaultDataWriterQos(),
		ReaderQos:        transport.DefaultDataReaderQos(),
	}
}

// RequesterParams returns parameters that pass validation against s.
func (s *Service) RequesterParams() RequesterParams {
	return RequesterParams{
		Qos:              RequesterQos{EndpointQos: s.endpointQos()},
		Retention:        RetainUntilTaken,
		RetiredCacheSize: defaultRetiredCacheSize,
	}
}

// ReplierParams returns parameters that pass validation against s.
func (s *Service) ReplierParams() ReplierParams {
	return ReplierParams{
		Qos: ReplierQos{EndpointQos: s.endpointQos()},
	}
}

// validate reports every field of q that disagrees with the service topology.
func (s *Service) validate(q EndpointQos) error {
	var err error
	check := func(field, expected, actual string) {
		if expected != actual {
			err = multierr.Append(err, &ParamError{Field: field, Expected: expected, Actual: actual})
		}
	}

	check("service name", s.name, q.ServiceName)
	check("request type", s.requestTypeName, q.RequestType)
	check("reply type", s.replyTypeName, q.ReplyType)
	check("request topic name", s.requestTopicName, q.RequestTopicName)
	check("reply topic name", s.replyTopicName, q.ReplyTopicName)
	check("writer reliability", transport.Reliable.String(), q.WriterQos.Reliability.String())
	check("reader reliability", transport.Reliable.String(), q.ReaderQos.Reliability.String())

	return err
}
