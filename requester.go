package rpc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"

	"github.com/RidgeA/pubsub-rpc/transport"
)

const (
	discardUnrelated = "unrelated"
	discardDuplicate = "duplicate"
	discardInvalid   = "invalid"
)

type (
	Requester interface {
		Entity
		GUID() uuid.UUID
		Service() *Service
		Params() RequesterParams
		IsValid() bool

		// SendRequest writes payload on the request topic and stores the
		// token assigned to it in info when info is not nil.
		SendRequest(payload []byte, info *RequestInfo) error
		// TakeReply returns ErrNoData when no reply is pending.
		TakeReply() (Sample, error)
		// TakeReplies takes up to max replies, every pending one when max <= 0.
		TakeReplies(max int) ([]Sample, error)

		// Outstanding lists the tokens still waiting for a reply.
		Outstanding() []SampleIdentity
		// Retire gives up on a request. Replies arriving for it later are
		// discarded. It reports whether the token was outstanding.
		Retire(SampleIdentity) bool

		base() *requester
	}

	requester struct {
		endpoint

		params     RequesterParams
		replyTopic transport.ContentFilteredTopic
		filter     *transport.IdentityFilter

		// sendMu makes token prediction and the write atomic.
		sendMu sync.Mutex

		mu      sync.Mutex
		pending map[SampleIdentity]struct{}
		retired *lru.Cache[SampleIdentity, struct{}]
	}
)

func newRequester(s *Service, params RequesterParams) *requester {
	size := params.RetiredCacheSize
	if size <= 0 {
		size = defaultRetiredCacheSize
	}
	retired, _ := lru.New[SampleIdentity, struct{}](size)

	r := &requester{
		params:  params,
		pending: make(map[SampleIdentity]struct{}),
		retired: retired,
	}
	r.init(s)
	r.adapter = newListenerAdapter(params.Listener, r)
	r.createErr = r.build(s)
	r.settle(r.createErr == nil)
	return r
}

// build creates the substrate entities. The first failure stops it.
func (r *requester) build(s *Service) error {
	t := r.participant.t
	q := r.params.Qos

	var err error
	if r.publisher, err = t.CreatePublisher(q.PublisherQos); err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	if r.writer, err = r.publisher.CreateDataWriter(s.requestTopic, q.WriterQos, r.adapter.writerListener()); err != nil {
		return fmt.Errorf("create request writer: %w", err)
	}
	r.guid = r.writer.GUID()

	if r.replyTopic, err = s.createReplyFilteredTopic(r.guid); err != nil {
		return fmt.Errorf("create reply filtered topic: %w", err)
	}
	r.filter = r.replyTopic.Filter()

	if r.subscriber, err = t.CreateSubscriber(q.SubscriberQos); err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	if r.reader, err = r.subscriber.CreateDataReader(r.replyTopic, q.ReaderQos, r.adapter.readerListener()); err != nil {
		return fmt.Errorf("create reply reader: %w", err)
	}
	return nil
}

func (r *requester) base() *requester {
	return r
}

func (r *requester) Params() RequesterParams {
	return r.params
}

func (r *requester) SendRequest(payload []byte, info *RequestInfo) error {
	if err := r.begin(); err != nil {
		r.participant.errorf("Trying to send a request with a disabled requester %s", r.guid)
		return err
	}
	defer r.end()

	if info == nil {
		info = &RequestInfo{}
	}
	info.RelatedSampleIdentity = transport.UnknownSampleIdentity

	r.sendMu.Lock()
	defer r.sendMu.Unlock()

	// the token is admitted before the request is on the wire, so a fast
	// reply cannot be filtered out
	token := r.writer.NextSampleIdentity()
	if !r.admit(token) {
		r.participant.errorf("Requester %s got token %s from a foreign writer", r.guid, token)
		return fmt.Errorf("%w: %s is not a token of requester %s", ErrTokenMismatch, token, r.guid)
	}

	if err := r.writer.Write(payload, info); err != nil {
		r.forget(token)
		r.participant.errorf("Unable to send request of service %s: %s", r.serviceName, err)
		return err
	}
	if !info.SampleIdentity.Equal(token) {
		r.forget(token)
		r.participant.errorf("Request of service %s sent as %s, expected %s", r.serviceName, info.SampleIdentity, token)
		return fmt.Errorf("%w: sent as %s, expected %s", ErrTokenMismatch, info.SampleIdentity, token)
	}

	r.participant.metrics.requestSent(r.serviceName)
	r.participant.debug("Request %s sent on service %s", info.SampleIdentity, r.serviceName)
	return nil
}

func (r *requester) TakeReply() (Sample, error) {
	if err := r.begin(); err != nil {
		r.participant.errorf("Trying to take a reply with a disabled requester %s", r.guid)
		return Sample{}, err
	}
	defer r.end()

	for {
		s, err := r.reader.TakeNextSample()
		if err != nil {
			return Sample{}, err
		}
		if r.accept(s) {
			return s, nil
		}
	}
}

func (r *requester) TakeReplies(max int) ([]Sample, error) {
	if err := r.begin(); err != nil {
		r.participant.errorf("Trying to take replies with a disabled requester %s", r.guid)
		return nil, err
	}
	defer r.end()

	var out []Sample
	for {
		want := 0
		if max > 0 {
			want = max - len(out)
		}
		batch, err := r.reader.Take(want)
		if errors.Is(err, transport.ErrNoData) {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, s := range batch {
			if r.accept(s) {
				out = append(out, s)
			}
		}
		if max <= 0 || len(out) >= max {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// accept confirms by exact token equality that s answers one of our
// outstanding requests.
func (r *requester) accept(s Sample) bool {
	if !s.Info.ValidData {
		r.discard(s, discardInvalid)
		return false
	}

	id := s.Info.RelatedSampleIdentity
	r.mu.Lock()
	_, ok := r.pending[id]
	if ok && r.params.Retention == RetainUntilTaken {
		r.retireLocked(id)
	}
	r.mu.Unlock()

	if !ok {
		if r.retired.Contains(id) {
			r.discard(s, discardDuplicate)
		} else {
			r.discard(s, discardUnrelated)
		}
		return false
	}

	r.participant.metrics.replyTaken(r.serviceName)
	return true
}

func (r *requester) discard(s Sample, reason string) {
	r.participant.debug("Requester %s discarded %s reply %s", r.guid, reason, s.Info.RelatedSampleIdentity)
	r.participant.metrics.replyDiscarded(r.serviceName, reason)
}

func (r *requester) admit(id SampleIdentity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.filter.Add(id) {
		return false
	}
	r.pending[id] = struct{}{}
	return true
}

// forget drops a token whose request never went out.
func (r *requester) forget(id SampleIdentity) {
	r.mu.Lock()
	delete(r.pending, id)
	r.filter.Remove(id)
	r.mu.Unlock()
}

func (r *requester) retireLocked(id SampleIdentity) {
	delete(r.pending, id)
	r.filter.Remove(id)
	r.retired.Add(id, struct{}{})
	r.participant.metrics.tokensReleased(r.serviceName, 1)
}

func (r *requester) Outstanding() []SampleIdentity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SampleIdentity, 0, len(r.pending))
	for id := range r.pending {
		out = append(out, id)
	}
	return out
}

func (r *requester) Retire(id SampleIdentity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[id]; !ok {
		return false
	}
	r.retireLocked(id)
	return true
}

// destroy closes the requester and releases everything it created.
func (r *requester) destroy() error {
	var err error
	r.terminate(func() {
		err = r.release()
		if r.replyTopic != nil {
			err = multierr.Append(err, r.participant.t.DeleteTopic(r.replyTopic))
			r.replyTopic = nil
		}

		r.mu.Lock()
		n := len(r.pending)
		r.pending = make(map[SampleIdentity]struct{})
		r.mu.Unlock()
		r.participant.metrics.tokensReleased(r.serviceName, n)
	})
	if err != nil {
		r.participant.errorf("Unable to release requester %s: %s", r.guid, err)
	}
	return err
}
