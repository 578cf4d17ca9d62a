// In-memory implementation of the pub/sub substrate. Participants created
// from the same Domain discover each other, so a Domain stands in for a
// network segment in tests and single-process deployments.

package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RidgeA/pubsub-rpc/transport"
)

const defaultQueueSize = 1024

type (
	Domain struct {
		queue  chan *pack
		ctx    context.Context
		cancel context.CancelFunc
		done   chan struct{}

		mu      sync.RWMutex
		writers map[uuid.UUID]*writer
		readers map[uuid.UUID]*reader
	}

	OptionsFunc func(*domainOptions)

	domainOptions struct {
		queueSize int
	}

	pack struct {
		topic    string
		reliable bool
		sample   transport.Sample
	}
)

func SetQueueSize(size int) OptionsFunc {
	return func(o *domainOptions) {
		o.queueSize = size
	}
}

// NewDomain starts the dispatch loop of a new domain.
func NewDomain(options ...OptionsFunc) *Domain {
	o := &domainOptions{queueSize: defaultQueueSize}
	for _, f := range options {
		f(o)
	}
	if o.queueSize < 1 {
		o.queueSize = 1
	}

	d := &Domain{
		queue:   make(chan *pack, o.queueSize),
		done:    make(chan struct{}),
		writers: make(map[uuid.UUID]*writer),
		readers: make(map[uuid.UUID]*reader),
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	go d.dispatch()
	return d
}

// New returns a participant on a private domain.
func New(options ...OptionsFunc) *Participant {
	p := NewDomain(options...).NewParticipant()
	p.ownsDomain = true
	return p
}

// Shutdown stops delivery. Pending samples are discarded.
func (d *Domain) Shutdown() {
	d.cancel()
	<-d.done
}

func (d *Domain) NewParticipant() *Participant {
	return newParticipant(d)
}

func (d *Domain) enqueue(p *pack, qos transport.DataWriterQos) error {
	if d.ctx.Err() != nil {
		return transport.ErrAlreadyDeleted
	}

	select {
	case d.queue <- p:
		return nil
	default:
	}

	if qos.Reliability != transport.Reliable {
		// best effort samples are lost when the queue is full
		return nil
	}

	timer := time.NewTimer(qos.MaxBlockingTime)
	defer timer.Stop()

	select {
	case d.queue <- p:
		return nil
	case <-timer.C:
		return transport.ErrTimeout
	case <-d.ctx.Done():
		return transport.ErrAlreadyDeleted
	}
}

func (d *Domain) dispatch() {
	defer close(d.done)
	for {
		select {
		case p := <-d.queue:
			d.deliver(p)
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *Domain) deliver(p *pack) {
	d.mu.RLock()
	targets := make([]*reader, 0, 4)
	for _, r := range d.readers {
		if r.topicName != p.topic || !compatible(p.reliable, r.qos) {
			continue
		}
		if !r.accepts(p.sample.Info) {
			continue
		}
		targets = append(targets, r)
	}
	d.mu.RUnlock()

	for _, r := range targets {
		s := p.sample
		s.Payload = append([]byte(nil), p.sample.Payload...)
		r.receive(s)
	}
}

// reliable readers only match reliable writers
func compatible(writerReliable bool, qos transport.DataReaderQos) bool {
	return writerReliable || qos.Reliability != transport.Reliable
}

type matchEvent struct {
	fire func()
}

func (d *Domain) addWriter(w *writer) {
	var events []matchEvent

	d.mu.Lock()
	d.writers[w.guid] = w
	for _, r := range d.readers {
		if r.topicName != w.topic.Name() || !compatible(w.reliable(), r.qos) {
			continue
		}
		events = append(events, w.matched(1), r.matched(1))
	}
	d.mu.Unlock()

	fireAll(events)
}

func (d *Domain) removeWriter(w *writer) {
	var events []matchEvent

	d.mu.Lock()
	delete(d.writers, w.guid)
	for _, r := range d.readers {
		if r.topicName != w.topic.Name() || !compatible(w.reliable(), r.qos) {
			continue
		}
		events = append(events, r.matched(-1))
	}
	d.mu.Unlock()

	fireAll(events)
}

func (d *Domain) addReader(r *reader) {
	var events []matchEvent

	d.mu.Lock()
	d.readers[r.guid] = r
	for _, w := range d.writers {
		if r.topicName != w.topic.Name() || !compatible(w.reliable(), r.qos) {
			continue
		}
		events = append(events, r.matched(1), w.matched(1))
	}
	d.mu.Unlock()

	fireAll(events)
}

func (d *Domain) removeReader(r *reader) {
	var events []matchEvent

	d.mu.Lock()
	delete(d.readers, r.guid)
	for _, w := range d.writers {
		if r.topicName != w.topic.Name() || !compatible(w.reliable(), r.qos) {
			continue
		}
		events = append(events, w.matched(-1))
	}
	d.mu.Unlock()

	fireAll(events)
}

func fireAll(events []matchEvent) {
	for _, e := range events {
		if e.fire != nil {
			e.fire()
		}
	}
}
