package inmemory

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

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
		listener  transport.WriterListener
		publisher *publisher
		deleted   atomic.Bool

		mu  sync.Mutex
		seq uint64

		// guarded by the domain lock
		status transport.MatchedStatus
	}

	reader struct {
		guid       uuid.UUID
		desc       transport.TopicDescription
		topicName  string
		filter     *transport.IdentityFilter
		qos        transport.DataReaderQos
		listener   transport.ReaderListener
		subscriber *subscriber
		history    *transport.History
		deleted    atomic.Bool

		// guarded by the domain lock
		status transport.MatchedStatus
	}
)

func (p *publisher) CreateDataWriter(t transport.Topic, qos transport.DataWriterQos, l transport.WriterListener) (transport.DataWriter, error) {
	if t == nil || !p.participant.Owns(t) {
		return nil, fmt.Errorf("%w: unknown topic", transport.ErrPreconditionNotMet)
	}
	if _, filtered := t.(transport.ContentFilteredTopic); filtered {
		return nil, fmt.Errorf("%w: writers cannot use a filtered topic", transport.ErrPreconditionNotMet)
	}

	w := &writer{
		guid:      transport.NewGUID(),
		topic:     t,
		qos:       qos,
		listener:  l,
		publisher: p,
	}

	p.mu.Lock()
	p.writers[w] = struct{}{}
	p.mu.Unlock()
	p.participant.Ref(t, 1)

	p.participant.domain.addWriter(w)
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
	p.participant.domain.removeWriter(w)
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
		if err := p.DeleteDataWriter(w); err != nil && err != transport.ErrAlreadyDeleted {
			return err
		}
	}
	return nil
}

func (p *publisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writers)
}

func (s *subscriber) CreateDataReader(d transport.TopicDescription, qos transport.DataReaderQos, l transport.ReaderListener) (transport.DataReader, error) {
	if d == nil || !s.participant.Owns(d) {
		return nil, fmt.Errorf("%w: unknown topic", transport.ErrPreconditionNotMet)
	}

	r := &reader{
		guid:       transport.NewGUID(),
		desc:       d,
		topicName:  transport.RelatedTopicOf(d).Name(),
		qos:        qos,
		listener:   l,
		subscriber: s,
		history:    transport.NewHistory(qos.HistoryDepth),
	}
	if cft, ok := d.(transport.ContentFilteredTopic); ok {
		r.filter = cft.Filter()
	}

	s.mu.Lock()
	s.readers[r] = struct{}{}
	s.mu.Unlock()
	s.participant.Ref(d, 1)

	s.participant.domain.addReader(r)
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
	s.participant.domain.removeReader(r)
	s.participant.Ref(r.desc, -1)
	r.history.Clear()
	return nil
}

func (s *subscriber) DeleteContainedEntities() error {
	s.mu.Lock()
	readers := make([]*reader, 0, len(s.readers))
	for r := range s.readers {
		readers = append(readers, r)
	}
	s.mu.Unlock()

	for _, r := range readers {
		if err := s.DeleteDataReader(r); err != nil && err != transport.ErrAlreadyDeleted {
			return err
		}
	}
	return nil
}

func (s *subscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readers)
}

func (w *writer) GUID() uuid.UUID        { return w.guid }
func (w *writer) Topic() transport.Topic { return w.topic }

func (w *writer) reliable() bool {
	return w.qos.Reliability == transport.Reliable
}

func (w *writer) NextSampleIdentity() transport.SampleIdentity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return transport.SampleIdentity{WriterGUID: w.guid, SequenceNumber: w.seq + 1}
}

func (w *writer) Write(payload []byte, params *transport.WriteParams) error {
	if w.deleted.Load() {
		return transport.ErrAlreadyDeleted
	}
	if params == nil {
		params = &transport.WriteParams{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	params.SampleIdentity = transport.SampleIdentity{WriterGUID: w.guid, SequenceNumber: w.seq + 1}
	p := &pack{
		topic:    w.topic.Name(),
		reliable: w.reliable(),
		sample:   transport.NewSample(payload, *params, time.Now()),
	}
	if err := w.publisher.participant.domain.enqueue(p, w.qos); err != nil {
		params.SampleIdentity = transport.UnknownSampleIdentity
		return err
	}
	w.seq++
	return nil
}

func (w *writer) matched(delta int) matchEvent {
	w.status = nextStatus(w.status, delta)
	status := w.status
	if w.listener == nil {
		return matchEvent{}
	}
	return matchEvent{fire: func() { w.listener.OnPublicationMatched(w, status) }}
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

func (r *reader) accepts(info transport.SampleInfo) bool {
	return r.filter == nil || r.filter.Match(info)
}

func (r *reader) receive(s transport.Sample) {
	if r.deleted.Load() {
		return
	}
	r.history.Push(s)
	if r.listener != nil {
		go r.listener.OnDataAvailable(r)
	}
}

func (r *reader) matched(delta int) matchEvent {
	r.status = nextStatus(r.status, delta)
	status := r.status
	if r.listener == nil {
		return matchEvent{}
	}
	return matchEvent{fire: func() { r.listener.OnSubscriptionMatched(r, status) }}
}

func nextStatus(s transport.MatchedStatus, delta int) transport.MatchedStatus {
	if delta > 0 {
		s.TotalCount += delta
	}
	s.CurrentCount += delta
	s.CurrentCountChange = delta
	return s
}
