// Package rpc implements request/reply on top of a publish/subscribe
// substrate. A Service owns a request and a reply topic; any number of
// Requesters share one Replier, and every reply is routed back to the
// requester whose request token it references.
package rpc

import (
	"fmt"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RidgeA/pubsub-rpc/transport"
)

var (
	silentLog = func(format string, args ...interface{}) {}
	errorLog  = log.Printf
)

const (
	requestSuffix = "_Request"
	replySuffix   = "_Reply"
)

type (
	LogFunc func(string, ...interface{})

	OptionsFunc func(*Participant)

	// Participant creates and owns the services of one transport participant.
	Participant struct {
		errorf, info, debug LogFunc
		t                   transport.Participant
		registerer          prometheus.Registerer
		metrics             *metrics

		mu        sync.Mutex
		closed    bool
		services  map[string]*Service
		factories map[string]EndpointFactory
	}
)

func SetError(f LogFunc) OptionsFunc {
	return func(p *Participant) {
		p.errorf = f
	}
}

func SetInfo(f LogFunc) OptionsFunc {
	return func(p *Participant) {
		p.info = f
	}
}

func SetDebug(f LogFunc) OptionsFunc {
	return func(p *Participant) {
		p.debug = f
	}
}

// SetLogger routes error, info and debug output to l.
func SetLogger(l *zap.Logger) OptionsFunc {
	return func(p *Participant) {
		s := l.Sugar()
		p.errorf = s.Errorf
		p.info = s.Infof
		p.debug = s.Debugf
	}
}

// SetMetrics enables the prometheus collectors of the participant.
func SetMetrics(reg prometheus.Registerer) OptionsFunc {
	return func(p *Participant) {
		p.registerer = reg
	}
}

func NewParticipant(t transport.Participant, opts ...OptionsFunc) (*Participant, error) {
	p := &Participant{
		t:         t,
		errorf:    errorLog,
		info:      silentLog,
		debug:     silentLog,
		services:  make(map[string]*Service),
		factories: make(map[string]EndpointFactory),
	}

	for _, setter := range opts {
		setter(p)
	}

	if p.registerer != nil {
		m, err := newMetrics(p.registerer)
		if err != nil {
			return nil, fmt.Errorf("rpc: register metrics: %w", err)
		}
		p.metrics = m
	}
	return p, nil
}

func (p *Participant) Transport() transport.Participant {
	return p.t
}

// RegisterServiceType registers the request and reply types of typeName
// with the substrate.
func (p *Participant) RegisterServiceType(typeName string) error {
	p.debug("Register service type %s", typeName)
	if err := p.t.RegisterType(typeName + requestSuffix); err != nil {
		return err
	}
	return p.t.RegisterType(typeName + replySuffix)
}

// RegisterEndpointFactory customizes the endpoints of services of typeName
// created afterwards.
func (p *Participant) RegisterEndpointFactory(typeName string, f EndpointFactory) {
	p.mu.Lock()
	p.factories[typeName] = f
	p.mu.Unlock()
}

func (p *Participant) CreateService(name, typeName string) (*Service, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if _, exists := p.services[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrServiceExists, name)
	}

	s, err := newService(p, name, typeName, p.factories[typeName])
	if err != nil {
		p.errorf("Unable to create service %s: %s", name, err)
		p.metrics.creationFailed(name, "service")
		return nil, err
	}

	p.services[name] = s
	p.info("Service %s of type %s created", name, typeName)
	return s, nil
}

func (p *Participant) FindService(name string) *Service {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.services[name]
}

// DeleteService deletes the endpoints of s and then its topics.
func (p *Participant) DeleteService(s *Service) error {
	if s == nil {
		return ErrBadParameter
	}

	p.mu.Lock()
	if p.services[s.name] != s {
		p.mu.Unlock()
		return fmt.Errorf("%w: service %s does not belong to this participant", ErrBadParameter, s.name)
	}
	delete(p.services, s.name)
	p.mu.Unlock()

	p.info("Deleting service %s", s.name)
	return s.destroy()
}

// Close deletes every service. The transport participant is left open.
func (p *Participant) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	services := make([]*Service, 0, len(p.services))
	for _, s := range p.services {
		services = append(services, s)
	}
	p.services = make(map[string]*Service)
	p.mu.Unlock()

	var err error
	for _, s := range services {
		err = multierr.Append(err, s.destroy())
	}
	return err
}
