package nats

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/multierr"

	"github.com/RidgeA/pubsub-rpc/transport"
)

type (
	publisher struct {
		participant *Participant
		qos         transport.PublisherQos

		mu      sync.Mutex
		writers map[*writer]struct{}
	}

	subscriber struct {
		participant *Participant
		qos         transport.SubscriberQos

		mu      sync.Mutex
		readers map[*reader]struct{}
	}

	writer struct {
		guid      uuid.UUID
		topic     transport.Topic
		qos       transport.DataWriterQos
		publisher *publisher
		deleted   atomic.Bool

		mu  sync.Mutex
		seq uint64
	}

	reader struct {
		guid       uuid.UUID
		desc       transport.TopicDescription
		filter     *transport.IdentityFilter
		listener   transport.ReaderListener
		subscriber *subscriber
		history    *transport.History
		deleted    atomic.Bool
		sub        *nats.Subscription
	}
)

func (p *publisher) CreateDataWriter(t transport.Topic, qos transport.DataWriterQos, _ transport.WriterListener) (transport.DataWriter, error) {
	if t == nil || !p.participant.Owns(t) {
		return nil, fmt.Errorf("%w: unknown topic", transport.ErrPreconditionNotMet)
	}
	if _, filtered := t.(transport.ContentFilteredTopic); filtered {
		return nil, fmt.Errorf("%w: writers cannot use a filtered topic", transport.ErrPreconditionNotMet)
	}
	if qos.MaxBlockingTime <= 0 {
		qos.MaxBlockingTime = transport.DefaultMaxBlockingTime
	}

	w := &writer{
		guid:      transport.NewGUID(),
		topic:     t,
		qos:       qos,
		publisher: p,
	}

	p.mu.Lock()
	p.writers[w] = struct{}{}
	p.mu.Unlock()
	p.participant.Ref(t, 1)
	return w, nil
}

func (p *publisher) DeleteDataWriter(dw transport.DataWriter) error {
	w, ok := dw.(*writer)
	if !ok {
		return transport.ErrPreconditionNotMet
	}

	p.mu.Lock()
	_, exists := p.writers[w]
	delete(p.writers, w)
	p.mu.Unlock()
	if !exists {
		return transport.ErrAlreadyDeleted
	}

	w.deleted.Store(true)
	p.participant.Ref(w.topic, -1)
	return nil
}

func (p *publisher) DeleteContainedEntities() error {
	p.mu.Lock()
	writers := make([]*writer, 0, len(p.writers))
	for w := range p.writers {
		writers = append(writers, w)
	}
	p.mu.Unlock()

	for _, w := range writers {
		_ = p.DeleteDataWriter(w)
	}
	return nil
}

func (p *publisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writers)
}

func (s *subscriber) CreateDataReader(d transport.TopicDescription, qos transport.DataReaderQos, l transport.ReaderListener) (transport.DataReader, error) {
	part := s.participant
	if d == nil || !part.Owns(d) {
		return nil, fmt.Errorf("%w: unknown topic", transport.ErrPreconditionNotMet)
	}

	r := &reader{
		guid:       transport.NewGUID(),
		desc:       d,
		listener:   l,
		subscriber: s,
		history:    transport.NewHistory(qos.HistoryDepth),
	}

	key := "*"
	if cft, ok := d.(transport.ContentFilteredTopic); ok {
		r.filter = cft.Filter()
		if !r.filter.IsMatchAll() {
			key = r.filter.Writer().String()
		}
	}

	var err error
	r.sub, err = part.conn.Subscribe(part.subject(transport.RelatedTopicOf(d).Name(), key), r.receive)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.readers[r] = struct{}{}
	s.mu.Unlock()
	part.Ref(d, 1)
	return r, nil
}

func (s *subscriber) DeleteDataReader(dr transport.DataReader) error {
	r, ok := dr.(*reader)
	if !ok {
		return transport.ErrPreconditionNotMet
	}

	s.mu.Lock()
	_, exists := s.readers[r]
	delete(s.readers, r)
	s.mu.Unlock()
	if !exists {
		return transport.ErrAlreadyDeleted
	}

	r.deleted.Store(true)
	s.participant.Ref(r.desc, -1)
	r.history.Clear()

	err := r.sub.Unsubscribe()
	if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, nats.ErrBadSubscription) {
		return nil
	}
	return err
}

func (s *subscriber) DeleteContainedEntities() error {
	s.mu.Lock()
	readers := make([]*reader, 0, len(s.readers))
	for r := range s.readers {
		readers = append(readers, r)
	}
	s.mu.Unlock()

	var err error
	for _, r := range readers {
		if derr := s.DeleteDataReader(r); derr != transport.ErrAlreadyDeleted {
			err = multierr.Append(err, derr)
		}
	}
	return err
}

func (s *subscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readers)
}

func (w *writer) GUID() uuid.UUID        { return w.guid }
func (w *writer) Topic() transport.Topic { return w.topic }

func (w *writer) NextSampleIdentity() transport.SampleIdentity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return transport.SampleIdentity{WriterGUID: w.guid, SequenceNumber: w.seq + 1}
}

// Write publishes one sample. A reliable writer flushes the connection and
// fails with transport.ErrTimeout when the server does not answer within
// MaxBlockingTime.
func (w *writer) Write(payload []byte, params *transport.WriteParams) error {
	if w.deleted.Load() {
		return transport.ErrAlreadyDeleted
	}
	if params == nil {
		params = &transport.WriteParams{}
	}
	part := w.publisher.participant

	w.mu.Lock()
	defer w.mu.Unlock()

	params.SampleIdentity = transport.SampleIdentity{WriterGUID: w.guid, SequenceNumber: w.seq + 1}
	msg := toMsg(part.subject(w.topic.Name(), routingKey(params.RelatedSampleIdentity)), w.topic.TypeName(), payload, *params)

	if err := part.conn.PublishMsg(msg); err != nil {
		params.SampleIdentity = transport.UnknownSampleIdentity
		return err
	}
	w.seq++

	if w.qos.Reliability != transport.Reliable {
		return nil
	}
	if err := part.conn.FlushTimeout(w.qos.MaxBlockingTime); err != nil {
		params.SampleIdentity = transport.UnknownSampleIdentity
		if errors.Is(err, nats.ErrTimeout) {
			return transport.ErrTimeout
		}
		return err
	}
	return nil
}

func (r *reader) receive(msg *nats.Msg) {
	s, err := fromMsg(msg, time.Now())
	if err != nil {
		r.subscriber.participant.errorf("Dropping malformed sample on %s: %s", msg.Subject, err)
		return
	}
	if r.deleted.Load() || (r.filter != nil && !r.filter.Match(s.Info)) {
		return
	}

	r.history.Push(s)
	if r.listener != nil {
		go r.listener.OnDataAvailable(r)
	}
}

func (r *reader) GUID() uuid.UUID                              { return r.guid }
func (r *reader) TopicDescription() transport.TopicDescription { return r.desc }

func (r *reader) TakeNextSample() (transport.Sample, error) {
	if r.deleted.Load() {
		return transport.Sample{}, transport.ErrAlreadyDeleted
	}
	return r.history.TakeNext()
}

func (r *reader) Take(max int) ([]transport.Sample, error) {
	if r.deleted.Load() {
		return nil, transport.ErrAlreadyDeleted
	}
	return r.history.Take(max)
}

func routingKey(related transport.SampleIdentity) string {
	if related.IsUnknown() {
		return unknownRoutingKey
	}
	return related.WriterGUID.String()
}

func toMsg(subject, typeName string, payload []byte, params transport.WriteParams) *nats.Msg {
	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set(headerSampleIdentity, params.SampleIdentity.String())
	msg.Header.Set(headerType, typeName)
	if !params.RelatedSampleIdentity.IsUnknown() {
		msg.Header.Set(headerRelatedIdentity, params.RelatedSampleIdentity.String())
	}
	return msg
}

// fromMsg stamps the sample with the reception time; NATS carries none.
func fromMsg(msg *nats.Msg, received time.Time) (transport.Sample, error) {
	id, err := transport.ParseSampleIdentity(msg.Header.Get(headerSampleIdentity))
	if err != nil {
		return transport.Sample{}, err
	}
	related, err := transport.ParseSampleIdentity(msg.Header.Get(headerRelatedIdentity))
	if err != nil {
		return transport.Sample{}, err
	}
	return transport.NewSample(msg.Data, transport.WriteParams{
		SampleIdentity:        id,
		RelatedSampleIdentity: related,
	}, received), nil
}
