package rpc

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RidgeA/pubsub-rpc/transport"
)

type (
	Replier interface {
		Entity
		GUID() uuid.UUID
		Service() *Service
		Params() ReplierParams
		IsValid() bool

		// SendReply writes payload on the reply topic. info.RelatedSampleIdentity
		// must hold the token of the request being answered.
		SendReply(payload []byte, info *RequestInfo) error
		// TakeRequest returns ErrNoData when no request is pending.
		TakeRequest() (Sample, error)
		// TakeRequests takes up to max requests, every pending one when max <= 0.
		TakeRequests(max int) ([]Sample, error)

		base() *replier
	}

	replier struct {
		endpoint
		params ReplierParams
	}
)

func newReplier(s *Service, params ReplierParams) *replier {
	r := &replier{params: params}
	r.init(s)
	r.adapter = newListenerAdapter(params.Listener, r)
	r.createErr = r.build(s)
	r.settle(r.createErr == nil)
	return r
}

func (r *replier) build(s *Service) error {
	t := r.participant.t
	q := r.params.Qos

	var err error
	if r.publisher, err = t.CreatePublisher(q.PublisherQos); err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	if r.writer, err = r.publisher.CreateDataWriter(s.replyTopic, q.WriterQos, r.adapter.writerListener()); err != nil {
		return fmt.Errorf("create reply writer: %w", err)
	}
	r.guid = r.writer.GUID()

	if r.subscriber, err = t.CreateSubscriber(q.SubscriberQos); err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	if r.reader, err = r.subscriber.CreateDataReader(s.requestFilteredTopic, q.ReaderQos, r.adapter.readerListener()); err != nil {
		return fmt.Errorf("create request reader: %w", err)
	}
	return nil
}

func (r *replier) base() *replier {
	return r
}

func (r *replier) Params() ReplierParams {
	return r.params
}

func (r *replier) SendReply(payload []byte, info *RequestInfo) error {
	if err := r.begin(); err != nil {
		r.participant.errorf("Trying to send a reply with a disabled replier %s", r.guid)
		return err
	}
	defer r.end()

	if info == nil || info.RelatedSampleIdentity.IsUnknown() {
		return fmt.Errorf("%w: reply without a related request", ErrBadParameter)
	}

	if err := r.writer.Write(payload, info); err != nil {
		r.participant.errorf("Unable to send reply of service %s: %s", r.serviceName, err)
		return err
	}

	r.participant.metrics.replySent(r.serviceName)
	r.participant.debug("Reply %s to request %s sent on service %s",
		info.SampleIdentity, info.RelatedSampleIdentity, r.serviceName)
	return nil
}

func (r *replier) TakeRequest() (Sample, error) {
	if err := r.begin(); err != nil {
		r.participant.errorf("Trying to take a request with a disabled replier %s", r.guid)
		return Sample{}, err
	}
	defer r.end()

	for {
		s, err := r.reader.TakeNextSample()
		if err != nil {
			return Sample{}, err
		}
		if s.Info.ValidData {
			r.participant.metrics.requestTaken(r.serviceName, 1)
			return s, nil
		}
	}
}

func (r *replier) TakeRequests(max int) ([]Sample, error) {
	if err := r.begin(); err != nil {
		r.participant.errorf("Trying to take requests with a disabled replier %s", r.guid)
		return nil, err
	}
	defer r.end()

	batch, err := r.reader.Take(max)
	if err != nil && !errors.Is(err, transport.ErrNoData) {
		return nil, err
	}

	out := batch[:0]
	for _, s := range batch {
		if s.Info.ValidData {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	r.participant.metrics.requestTaken(r.serviceName, len(out))
	return out, nil
}

func (r *replier) destroy() error {
	var err error
	r.terminate(func() {
		err = r.release()
	})
	if err != nil {
		r.participant.errorf("Unable to release replier %s: %s", r.guid, err)
	}
	return err
}
