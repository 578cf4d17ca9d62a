// Package nats runs the pub/sub substrate on a NATS server. A sample of
// topic T is published on <prefix>.T.<routing key>, where the routing key is
// the writer GUID of its related identity, and identities travel in headers.
package nats

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/RidgeA/pubsub-rpc/transport"
)

const (
	defaultPrefix = "rpc"

	headerSampleIdentity  = "Rpc-Sample-Identity"
	headerRelatedIdentity = "Rpc-Related-Identity"
	headerType            = "Rpc-Type"

	unknownRoutingKey = "_"
)

type (
	LogFunc func(string, ...interface{})

	OptionsFunc func(*Participant)

	Participant struct {
		*transport.Catalog

		url     string
		prefix  string
		name    string
		timeout time.Duration
		extConn bool
		conn    *nats.Conn
		errorf  LogFunc

		mu          sync.Mutex
		publishers  map[*publisher]struct{}
		subscribers map[*subscriber]struct{}
	}
)

var (
	_ transport.Participant = (*Participant)(nil)

	errNotConnected = fmt.Errorf("%w: nats participant is not connected", transport.ErrPreconditionNotMet)
)

func SetConnection(conn *nats.Conn) OptionsFunc {
	return func(p *Participant) {
		p.extConn = true
		p.conn = conn
	}
}

// SetSubjectPrefix isolates participants sharing a server.
func SetSubjectPrefix(prefix string) OptionsFunc {
	return func(p *Participant) {
		p.prefix = prefix
	}
}

func SetClientName(name string) OptionsFunc {
	return func(p *Participant) {
		p.name = name
	}
}

func SetConnectTimeout(d time.Duration) OptionsFunc {
	return func(p *Participant) {
		p.timeout = d
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
		prefix:      defaultPrefix,
		timeout:     5 * time.Second,
		errorf:      log.Printf,
		publishers:  make(map[*publisher]struct{}),
		subscribers: make(map[*subscriber]struct{}),
	}

	for _, f := range options {
		f(p)
	}
	return p
}

func (p *Participant) Initialize() error {
	if p.conn != nil {
		return nil
	}

	opts := []nats.Option{
		nats.Timeout(p.timeout),
		nats.ErrorHandler(p.handleError),
	}
	if p.name != "" {
		opts = append(opts, nats.Name(p.name))
	}

	conn, err := nats.Connect(p.url, opts...)
	if err != nil {
		return err
	}
	p.conn = conn
	return nil
}

func (p *Participant) handleError(_ *nats.Conn, sub *nats.Subscription, err error) {
	if sub != nil {
		p.errorf("NATS error on %s: %s", sub.Subject, err)
		return
	}
	p.errorf("NATS error: %s", err)
}

func (p *Participant) connected() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errNotConnected
	}
	return nil
}

func (p *Participant) CreateTopic(name, typeName string, _ transport.TopicQos) (transport.Topic, error) {
	if strings.ContainsAny(name, ".*> ") {
		return nil, fmt.Errorf("%w: topic name %q is not a subject token", transport.ErrPreconditionNotMet, name)
	}
	return p.Catalog.CreateTopic(name, typeName)
}

func (p *Participant) subject(topic, key string) string {
	return p.prefix + "." + topic + "." + key
}

func (p *Participant) CreatePublisher(qos transport.PublisherQos) (transport.Publisher, error) {
	if p.Closed() {
		return nil, transport.ErrAlreadyDeleted
	}
	if qos.Partition != "" {
		return nil, fmt.Errorf("%w: partitions", transport.ErrNotSupported)
	}
	if err := p.connected(); err != nil {
		return nil, err
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
	if err := p.connected(); err != nil {
		return nil, err
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

// Close unsubscribes every reader and drains the connection unless it was
// supplied with SetConnection.
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
		if err := sub.DeleteContainedEntities(); err != nil {
			p.errorf("Error while deleting readers: %s", err)
		}
	}

	if !p.extConn && p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}
