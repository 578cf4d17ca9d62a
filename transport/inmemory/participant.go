package inmemory

import (
	"fmt"
	"sync"

	"github.com/RidgeA/pubsub-rpc/transport"
)

type Participant struct {
	*transport.Catalog

	domain     *Domain
	ownsDomain bool

	mu          sync.Mutex
	publishers  map[*publisher]struct{}
	subscribers map[*subscriber]struct{}
}

var _ transport.Participant = (*Participant)(nil)

func newParticipant(d *Domain) *Participant {
	return &Participant{
		Catalog:     transport.NewCatalog(),
		domain:      d,
		publishers:  make(map[*publisher]struct{}),
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (p *Participant) Domain() *Domain {
	return p.domain
}

func (p *Participant) CreateTopic(name, typeName string, _ transport.TopicQos) (transport.Topic, error) {
	return p.Catalog.CreateTopic(name, typeName)
}

func (p *Participant) CreatePublisher(qos transport.PublisherQos) (transport.Publisher, error) {
	if p.Closed() {
		return nil, transport.ErrAlreadyDeleted
	}
	pub := &publisher{participant: p, qos: qos, writers: make(map[*writer]struct{})}
	p.mu.Lock()
	p.publishers[pub] = struct{}{}
	p.mu.Unlock()
	return pub, nil
}

func (p *Participant) DeletePublisher(pub transport.Publisher) error {
	impl, ok := pub.(*publisher)
	if !ok {
		return transport.ErrPreconditionNotMet
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.publishers[impl]; !exists {
		return transport.ErrAlreadyDeleted
	}
	if impl.count() > 0 {
		return fmt.Errorf("%w: publisher has writers", transport.ErrPreconditionNotMet)
	}
	delete(p.publishers, impl)
	return nil
}

func (p *Participant) CreateSubscriber(qos transport.SubscriberQos) (transport.Subscriber, error) {
	if p.Closed() {
		return nil, transport.ErrAlreadyDeleted
	}
	sub := &subscriber{participant: p, qos: qos, readers: make(map[*reader]struct{})}
	p.mu.Lock()
	p.subscribers[sub] = struct{}{}
	p.mu.Unlock()
	return sub, nil
}

func (p *Participant) DeleteSubscriber(sub transport.Subscriber) error {
	impl, ok := sub.(*subscriber)
	if !ok {
		return transport.ErrPreconditionNotMet
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.subscribers[impl]; !exists {
		return transport.ErrAlreadyDeleted
	}
	if impl.count() > 0 {
		return fmt.Errorf("%w: subscriber has readers", transport.ErrPreconditionNotMet)
	}
	delete(p.subscribers, impl)
	return nil
}

// Close deletes every entity of the participant. A participant created with
// New also shuts its private domain down.
func (p *Participant) Close() error {
	if !p.Catalog.Close() {
		return nil
	}

	p.mu.Lock()
	pubs := make([]*publisher, 0, len(p.publishers))
	for pub := range p.publishers {
		pubs = append(pubs, pub)
	}
	subs := make([]*subscriber, 0, len(p.subscribers))
	for sub := range p.subscribers {
		subs = append(subs, sub)
	}
	p.publishers = make(map[*publisher]struct{})
	p.subscribers = make(map[*subscriber]struct{})
	p.mu.Unlock()

	for _, pub := range pubs {
		_ = pub.DeleteContainedEntities()
	}
	for _, sub := range subs {
		_ = sub.DeleteContainedEntities()
	}

	if p.ownsDomain {
		p.domain.Shutdown()
	}
	return nil
}
