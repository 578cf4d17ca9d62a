package amqp

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/multierr"

	"github.com/RidgeA/pubsub-rpc/transport"
)

const confirmBuffer = 64

var errChannelClosed = errors.New("amqp: writer channel closed by the broker")

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
		exchange  string
		qos       transport.DataWriterQos
		publisher *publisher
		deleted   atomic.Bool

		mu        sync.Mutex
		ch        *amqp.Channel
		closed    chan *amqp.Error
		confirms  chan amqp.Confirmation
		seq       uint64
		published uint64
	}

	reader struct {
		guid       uuid.UUID
		desc       transport.TopicDescription
		filter     *transport.IdentityFilter
		listener   transport.ReaderListener
		subscriber *subscriber
		history    *transport.History
		deleted    atomic.Bool

		ch    *amqp.Channel
		queue string
		done  chan struct{}
	}
)

func (p *publisher) CreateDataWriter(t transport.Topic, qos transport.DataWriterQos, _ transport.WriterListener) (transport.DataWriter, error) {
	part := p.participant
	if t == nil || !part.Owns(t) {
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
		exchange:  exchangeName(t.Name()),
		qos:       qos,
		publisher: p,
	}
	if err := w.open(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.writers[w] = struct{}{}
	p.mu.Unlock()
	part.Ref(t, 1)
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

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}

func (p *publisher) DeleteContainedEntities() error {
	p.mu.Lock()
	writers := make([]*writer, 0, len(p.writers))
	for w := range p.writers {
		writers = append(writers, w)
	}
	p.mu.Unlock()

	var err error
	for _, w := range writers {
		if derr := p.DeleteDataWriter(w); derr != transport.ErrAlreadyDeleted {
			err = multierr.Append(err, derr)
		}
	}
	return err
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

	ch, err := part.conn.Channel()
	if err != nil {
		return nil, err
	}

	r := &reader{
		guid:       transport.NewGUID(),
		desc:       d,
		listener:   l,
		subscriber: s,
		history:    transport.NewHistory(qos.HistoryDepth),
		ch:         ch,
		done:       make(chan struct{}),
	}
	if cft, ok := d.(transport.ContentFilteredTopic); ok {
		r.filter = cft.Filter()
	}

	deliveries, err := r.consume(transport.RelatedTopicOf(d).Name(), bindingKey(d))
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	s.mu.Lock()
	s.readers[r] = struct{}{}
	s.mu.Unlock()
	part.Ref(d, 1)

	go r.handle(deliveries)
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

	err := r.ch.Cancel(r.guid.String(), false)
	err = multierr.Append(err, r.ch.Close())
	<-r.done
	r.history.Clear()
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

// Write publishes one sample. A reliable writer waits for the broker to
// confirm it, at most MaxBlockingTime.
func (w *writer) Write(payload []byte, params *transport.WriteParams) error {
	if w.deleted.Load() {
		return transport.ErrAlreadyDeleted
	}
	if params == nil {
		params = &transport.WriteParams{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.reopen(); err != nil {
		params.SampleIdentity = transport.UnknownSampleIdentity
		return err
	}

	params.SampleIdentity = transport.SampleIdentity{WriterGUID: w.guid, SequenceNumber: w.seq + 1}
	msg := toPublishing(
		payload,
		w.topic.TypeName(),
		w.publisher.participant.appID,
		*params,
		w.confirms != nil,
		time.Now(),
	)

	if err := w.ch.Publish(w.exchange, routingKey(params.RelatedSampleIdentity), false, false, msg); err != nil {
		params.SampleIdentity = transport.UnknownSampleIdentity
		return err
	}
	w.seq++

	if w.confirms == nil {
		return nil
	}
	w.published++
	if err := w.awaitConfirm(w.published); err != nil {
		params.SampleIdentity = transport.UnknownSampleIdentity
		return err
	}
	return nil
}

// open gives the writer a new channel. The exchange is declared again in
// case the broker lost it.
func (w *writer) open() error {
	ch, err := w.publisher.participant.conn.Channel()
	if err != nil {
		return err
	}
	reliable := w.qos.Reliability == transport.Reliable

	err = declareExchange(ch, w.topic.Name())
	if err == nil && reliable {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = ch.Close()
		return err
	}

	w.ch = ch
	w.closed = ch.NotifyClose(make(chan *amqp.Error, 1))
	w.confirms = nil
	w.published = 0
	if reliable {
		w.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))
	}
	return nil
}

// reopen replaces a channel closed by the broker, e.g. after a publish to a
// missing exchange. Must be called with mu held.
func (w *writer) reopen() error {
	select {
	case cause := <-w.closed:
		if cause != nil {
			w.publisher.participant.errorf("Channel of writer %s closed: %s", w.guid, cause)
		}
	default:
		return nil
	}
	return w.open()
}

// awaitConfirm skips confirmations left over by writes that timed out.
func (w *writer) awaitConfirm(tag uint64) error {
	timer := time.NewTimer(w.qos.MaxBlockingTime)
	defer timer.Stop()

	for {
		select {
		case c, ok := <-w.confirms:
			if !ok {
				return errChannelClosed
			}
			if c.DeliveryTag < tag {
				continue
			}
			if !c.Ack {
				return fmt.Errorf("amqp: broker rejected sample %d of writer %s", tag, w.guid)
			}
			return nil
		case <-timer.C:
			return transport.ErrTimeout
		}
	}
}

func (r *reader) consume(topic, key string) (<-chan amqp.Delivery, error) {
	q, err := r.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	r.queue = q.Name

	if err = r.ch.QueueBind(r.queue, key, exchangeName(topic), false, nil); err != nil {
		return nil, err
	}
	return r.ch.Consume(r.queue, r.guid.String(), false, true, false, false, nil)
}

func (r *reader) handle(in <-chan amqp.Delivery) {
	defer close(r.done)
	for msg := range in {
		if err := r.receive(msg); err != nil {
			r.subscriber.participant.errorf("Dropping malformed sample on %s: %s", r.desc.Name(), err)
			_ = msg.Nack(false, false)
		} else {
			_ = msg.Ack(false)
		}
	}
}

func (r *reader) receive(msg amqp.Delivery) error {
	s, err := fromDelivery(msg)
	if err != nil {
		return err
	}
	if r.deleted.Load() || (r.filter != nil && !r.filter.Match(s.Info)) {
		return nil
	}

	r.history.Push(s)
	if r.listener != nil {
		go r.listener.OnDataAvailable(r)
	}
	return nil
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
