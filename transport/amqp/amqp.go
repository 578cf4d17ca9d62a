// Package amqp runs the pub/sub substrate on a RabbitMQ broker. Every topic
// is a topic exchange; a sample is routed by the writer GUID of its related
// identity so a reply filtered reader only binds to the replies of one
// requester. The exact token check is applied on delivery. Matched status
// is never reported since the broker hides the remote endpoints.
//
// Exchanges are not auto-deleted and DeleteTopic leaves them on the broker:
// writers of other processes keep publishing to them while no reader is
// bound.
package amqp

import (
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"

	"github.com/RidgeA/pubsub-rpc/transport"
)

const (
	anyRoutingKey     = "#"
	unknownRoutingKey = "_"
)

type (
	LogFunc func(string, ...interface{})

	OptionsFunc func(*Participant)

	Participant struct {
		*transport.Catalog

		url     string
		appID   string
		extConn bool
		conn    *amqp.Connection
		errorf  LogFunc

		// ctl declares exchanges
		ctlMu sync.Mutex
		ctl   *amqp.Channel

		mu          sync.Mutex
		publishers  map[*publisher]struct{}
		subscribers map[*subscriber]struct{}
	}
)

var (
	_ transport.Participant = (*Participant)(nil)

	errNotInitialized = fmt.Errorf("%w: amqp participant is not initialized", transport.ErrPreconditionNotMet)
)

func SetConnection(conn *amqp.Connection) OptionsFunc {
	return func(p *Participant) {
		p.extConn = true
		p.conn = conn
	}
}

// SetAppID marks every publishing of the participant.
func SetAppID(id string) OptionsFunc {
	return func(p *Participant) {
		p.appID = id
	}
}

func SetError(f LogFunc) OptionsFunc {
	return func(p *Participant) {
		p.errorf = f
	}
}

func New(url string, options ...OptionsFunc) *Participant {
	p := &Participant{
		Catalog:     transport.NewCatalog(),
		url:         url,
		errorf:      log.Printf,
		publishers:  make(map[*publisher]struct{}),
		subscribers: make(map[*subscriber]struct{}),
	}

	for _, f := range options {
		f(p)
	}
	return p
}

// Initialize connects to the broker unless a connection was supplied.
func (p *Participant) Initialize() error {
	var err error

	if p.conn == nil {
		if p.conn, err = amqp.Dial(p.url); err != nil {
			return err
		}
	}

	p.ctl, err = p.conn.Channel()
	return err
}

func (p *Participant) CreateTopic(name, typeName string, _ transport.TopicQos) (transport.Topic, error) {
	if p.ctl == nil {
		return nil, errNotInitialized
	}
	t, err := p.Catalog.CreateTopic(name, typeName)
	if err != nil {
		return nil, err
	}

	p.ctlMu.Lock()
	defer p.ctlMu.Unlock()
	if err = declareExchange(p.ctl, name); err != nil {
		_ = p.Catalog.DeleteTopic(t)
		p.reopenControl()
		return nil, fmt.Errorf("declare exchange for topic %s: %w", name, err)
	}
	return t, nil
}

// reopenControl replaces the control channel, which the broker closes on a
// failed declaration. Must be called with ctlMu held.
func (p *Participant) reopenControl() {
	_ = p.ctl.Close()
	ch, err := p.conn.Channel()
	if err != nil {
		p.errorf("Unable to reopen control channel: %s", err)
		return
	}
	p.ctl = ch
}

func declareExchange(ch *amqp.Channel, topic string) error {
	return ch.ExchangeDeclare(exchangeName(topic), "topic", false, false, false, false, nil)
}

func (p *Participant) CreatePublisher(qos transport.PublisherQos) (transport.Publisher, error) {
	if p.Closed() {
		return nil, transport.ErrAlreadyDeleted
	}
	if qos.Partition != "" {
		return nil, fmt.Errorf("%w: partitions", transport.ErrNotSupported)
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
	if qos.Partition != "" {
		return nil, fmt.Errorf("%w: partitions", transport.ErrNotSupported)
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

// Close deletes every writer and reader. The connection is closed unless it
// was supplied with SetConnection.
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
		if err := pub.DeleteContainedEntities(); err != nil {
			p.errorf("Error while deleting writers: %s", err)
		}
	}
	for _, sub := range subs {
		if err := sub.DeleteContainedEntities(); err != nil {
			p.errorf("Error while deleting readers: %s", err)
		}
	}

	if p.ctl != nil {
		if err := p.ctl.Close(); err != nil {
			p.errorf("Error while closing control channel: %s", err)
		}
	}
	if !p.extConn && p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func exchangeName(topic string) string {
	return topic + ".rpc.exchange"
}
