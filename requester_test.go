package rpc

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RidgeA/pubsub-rpc/transport"
)

func TestEcho_TwoRequesters(t *testing.T) {
	_, s := newEchoService(t)
	replier := newReplierT(t, s)
	a := newRequesterT(t, s)
	b := newRequesterT(t, s)

	var infoA, infoB RequestInfo
	require.NoError(t, a.SendRequest(encode(t, hello{Index: 1, Message: "Hello"}), &infoA))
	require.NoError(t, b.SendRequest(encode(t, hello{Index: 2, Message: "Hi"}), &infoB))
	assert.Equal(t, a.GUID(), infoA.SampleIdentity.WriterGUID)
	assert.Equal(t, b.GUID(), infoB.SampleIdentity.WriterGUID)

	for i := 0; i < 2; i++ {
		req := takeRequestEventually(t, replier)
		h := decode(t, req.Payload)
		h.Message = "Goodbye"
		require.NoError(t, replier.SendReply(encode(t, h), ReplyTo(req)))
	}

	replyA := takeReplyEventually(t, a)
	assert.Equal(t, hello{Index: 1, Message: "Goodbye"}, decode(t, replyA.Payload))
	assert.Equal(t, infoA.SampleIdentity, replyA.Info.RelatedSampleIdentity)

	replyB := takeReplyEventually(t, b)
	assert.Equal(t, hello{Index: 2, Message: "Goodbye"}, decode(t, replyB.Payload))
	assert.Equal(t, infoB.SampleIdentity, replyB.Info.RelatedSampleIdentity)

	time.Sleep(20 * time.Millisecond)
	for _, r := range []Requester{a, b} {
		_, err := r.TakeReply()
		assert.ErrorIs(t, err, ErrNoData)
		assert.Empty(t, r.Outstanding())
	}
}

func serve(t *testing.T, r Replier, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		requests, err := r.TakeRequests(0)
		if errors.Is(err, ErrNoData) {
			time.Sleep(time.Millisecond)
			continue
		}
		if !assert.NoError(t, err) {
			return
		}
		for _, req := range requests {
			assert.NoError(t, r.SendReply(req.Payload, ReplyTo(req)))
		}
	}
}

func TestNoCrossDeliveryUnderLoad(t *testing.T) {
	const (
		requesters = 4
		perRequest = 25
	)
	_, s := newEchoService(t)
	replier := newReplierT(t, s)

	stop, done := make(chan struct{}), make(chan struct{})
	go serve(t, replier, stop, done)
	defer func() {
		close(stop)
		<-done
	}()

	var wg sync.WaitGroup
	for i := 0; i < requesters; i++ {
		r := newRequesterT(t, s)
		wg.Add(1)
		go func(i int, r Requester) {
			defer wg.Done()

			sent := make(map[SampleIdentity]string, perRequest)
			for k := 0; k < perRequest; k++ {
				payload := fmt.Sprintf("%d/%d", i, k)
				var info RequestInfo
				if !assert.NoError(t, r.SendRequest([]byte(payload), &info)) {
					return
				}
				sent[info.SampleIdentity] = payload
			}

			received := 0
			assert.Eventually(t, func() bool {
				replies, err := r.TakeReplies(0)
				if err != nil {
					return false
				}
				for _, reply := range replies {
					want, ok := sent[reply.Info.RelatedSampleIdentity]
					assert.True(t, ok, "reply for a foreign request")
					assert.Equal(t, want, string(reply.Payload))
					received++
				}
				return received >= perRequest
			}, 5*time.Second, time.Millisecond)
			assert.Equal(t, perRequest, received)
			assert.Empty(t, r.Outstanding())
		}(i, r)
	}
	wg.Wait()

	time.Sleep(20 * time.Millisecond)
	for _, r := range s.GetRequesters() {
		_, err := r.TakeReplies(0)
		assert.ErrorIs(t, err, ErrNoData)
	}
}

func TestTakeReplies_Max(t *testing.T) {
	_, s := newEchoService(t)
	replier := newReplierT(t, s)
	r := newRequesterT(t, s)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.SendRequest([]byte{byte(i)}, nil))
	}
	var requests []Sample
	require.Eventually(t, func() bool {
		batch, err := replier.TakeRequests(0)
		if err == nil {
			requests = append(requests, batch...)
		}
		return len(requests) == 3
	}, time.Second, time.Millisecond)
	for _, req := range requests {
		require.NoError(t, replier.SendReply(req.Payload, ReplyTo(req)))
	}

	var first []Sample
	require.Eventually(t, func() bool {
		var err error
		first, err = r.TakeReplies(2)
		return err == nil
	}, time.Second, time.Millisecond)
	assert.NotEmpty(t, first)
	assert.LessOrEqual(t, len(first), 2)

	rest := takeReplyEventually(t, r)
	assert.NotNil(t, rest.Payload)
}

func TestDisabledEndpoints_NoSubstrateAccess(t *testing.T) {
	// the mocked writers and readers expect no Write or Take call
	ctrl, tp := mockedParticipant(t)
	_, s := newEchoServiceOn(t, tp)

	expectEndpoint(ctrl, tp)
	r := newRequesterT(t, s)
	expectEndpoint(ctrl, tp)
	rep := newReplierT(t, s)

	require.NoError(t, r.Close())
	require.NoError(t, rep.Close())
	assert.Equal(t, StateDisabled, r.State())
	assert.False(t, rep.IsEnabled())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, r.SendRequest([]byte("x"), nil), ErrNotEnabled)
		_, err := r.TakeReply()
		assert.ErrorIs(t, err, ErrNotEnabled)
		_, err = r.TakeReplies(0)
		assert.ErrorIs(t, err, ErrNotEnabled)

		assert.ErrorIs(t, rep.SendReply([]byte("x"), &RequestInfo{}), ErrNotEnabled)
		_, err = rep.TakeRequest()
		assert.ErrorIs(t, err, ErrNotEnabled)
		_, err = rep.TakeRequests(0)
		assert.ErrorIs(t, err, ErrNotEnabled)
	}

	require.NoError(t, s.DeleteRequester(r))
	require.NoError(t, s.DeleteReplier(rep))
}

func TestClose_EnableAgain(t *testing.T) {
	_, s := newEchoService(t)
	replier := newReplierT(t, s)
	r := newRequesterT(t, s)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.SendRequest([]byte("x"), nil), ErrNotEnabled)

	require.NoError(t, r.Enable())
	require.NoError(t, r.Enable())
	require.NoError(t, r.SendRequest([]byte("x"), nil))
	takeRequestEventually(t, replier)

	require.NoError(t, s.DeleteRequester(r))
	assert.Equal(t, StateClosed, r.State())
	assert.ErrorIs(t, r.Enable(), ErrClosed)
	assert.ErrorIs(t, r.SendRequest([]byte("x"), nil), ErrNotEnabled)
	_, err := r.TakeReply()
	assert.ErrorIs(t, err, ErrNotEnabled)
	assert.Nil(t, r.Service())
	assert.True(t, r.IsValid())

	// a deleted requester no longer belongs to the service
	assert.ErrorIs(t, s.DeleteRequester(r), ErrBadParameter)
}

func TestSendReply_RequiresRelatedIdentity(t *testing.T) {
	_, s := newEchoService(t)
	replier := newReplierT(t, s)

	assert.ErrorIs(t, replier.SendReply([]byte("x"), nil), ErrBadParameter)
	assert.ErrorIs(t, replier.SendReply([]byte("x"), &RequestInfo{}), ErrBadParameter)
}

func TestRetainUntilClosed_SeveralReplies(t *testing.T) {
	_, s := newEchoService(t)
	replier := newReplierT(t, s)

	params := s.RequesterParams()
	params.Retention = RetainUntilClosed
	r, err := s.CreateRequester(params)
	require.NoError(t, err)

	var info RequestInfo
	require.NoError(t, r.SendRequest([]byte("stream"), &info))
	req := takeRequestEventually(t, replier)
	require.NoError(t, replier.SendReply([]byte("part 1"), ReplyTo(req)))
	require.NoError(t, replier.SendReply([]byte("part 2"), ReplyTo(req)))

	assert.Equal(t, []byte("part 1"), takeReplyEventually(t, r).Payload)
	assert.Equal(t, []byte("part 2"), takeReplyEventually(t, r).Payload)
	assert.Equal(t, []SampleIdentity{info.SampleIdentity}, r.Outstanding())

	require.True(t, r.Retire(info.SampleIdentity))
	assert.False(t, r.Retire(info.SampleIdentity))
	assert.Empty(t, r.Outstanding())
}

func TestRetire_DropsLateReply(t *testing.T) {
	_, s := newEchoService(t)
	replier := newReplierT(t, s)
	r := newRequesterT(t, s)

	var info RequestInfo
	require.NoError(t, r.SendRequest([]byte("slow"), &info))
	req := takeRequestEventually(t, replier)

	require.True(t, r.Retire(info.SampleIdentity))
	require.NoError(t, replier.SendReply([]byte("too late"), ReplyTo(req)))

	time.Sleep(20 * time.Millisecond)
	_, err := r.TakeReply()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAccept_ConfirmsTokenExactly(t *testing.T) {
	_, s := newEchoService(t)
	r := newRequesterT(t, s).base()

	mine := r.writer.NextSampleIdentity()
	r.admit(mine)

	reply := func(related SampleIdentity) Sample {
		return transport.NewSample(nil, transport.WriteParams{RelatedSampleIdentity: related}, time.Now())
	}
	sameWriterOtherSeq := SampleIdentity{WriterGUID: mine.WriterGUID, SequenceNumber: mine.SequenceNumber + 1}
	otherWriterSameSeq := SampleIdentity{WriterGUID: transport.NewGUID(), SequenceNumber: mine.SequenceNumber}

	assert.False(t, r.accept(reply(sameWriterOtherSeq)))
	assert.False(t, r.accept(reply(otherWriterSameSeq)))
	assert.False(t, r.accept(Sample{Info: transport.SampleInfo{RelatedSampleIdentity: mine}}))

	assert.True(t, r.accept(reply(mine)))
	// a duplicate of an answered request
	assert.False(t, r.accept(reply(mine)))
	assert.False(t, r.filter.Contains(mine))
	assert.True(t, r.retired.Contains(mine))
}

func TestSendRequest_WriterErrorPropagates(t *testing.T) {
	ctrl, tp := mockedParticipant(t)
	_, s := newEchoServiceOn(t, tp)

	e := expectEndpoint(ctrl, tp)
	r := newRequesterT(t, s)

	next := SampleIdentity{WriterGUID: e.writer.GUID(), SequenceNumber: 1}
	e.writer.EXPECT().NextSampleIdentity().Return(next)
	e.writer.EXPECT().Write([]byte("x"), gomock.Any()).Return(transport.ErrTimeout)

	var info RequestInfo
	err := r.SendRequest([]byte("x"), &info)
	assert.ErrorIs(t, err, transport.ErrTimeout)
	assert.Empty(t, r.Outstanding())
	assert.False(t, r.base().filter.Contains(next))

	require.NoError(t, s.DeleteRequester(r))
}

func TestSendRequest_TokenMismatch(t *testing.T) {
	ctrl, tp := mockedParticipant(t)
	_, s := newEchoServiceOn(t, tp)

	e := expectEndpoint(ctrl, tp)
	r := newRequesterT(t, s)

	announced := SampleIdentity{WriterGUID: e.writer.GUID(), SequenceNumber: 1}
	assigned := SampleIdentity{WriterGUID: e.writer.GUID(), SequenceNumber: 2}
	e.writer.EXPECT().NextSampleIdentity().Return(announced)
	e.writer.EXPECT().Write([]byte("x"), gomock.Any()).
		DoAndReturn(func(_ []byte, params *transport.WriteParams) error {
			params.SampleIdentity = assigned
			return nil
		})

	err := r.SendRequest([]byte("x"), nil)
	assert.ErrorIs(t, err, ErrTokenMismatch)
	assert.Empty(t, r.Outstanding())
	assert.False(t, r.base().filter.Contains(announced))
	assert.False(t, r.base().filter.Contains(assigned))

	// a token of another writer is refused before anything is written
	e.writer.EXPECT().NextSampleIdentity().Return(SampleIdentity{WriterGUID: transport.NewGUID(), SequenceNumber: 1})
	assert.ErrorIs(t, r.SendRequest([]byte("x"), nil), ErrTokenMismatch)
	assert.Empty(t, r.Outstanding())

	require.NoError(t, s.DeleteRequester(r))
}

func TestTeardown_DuringInFlightOperations(t *testing.T) {
	const (
		workers = 8
		calls   = 200
	)
	p, s := newEchoService(t)
	replier := newReplierT(t, s)
	requesters := []Requester{newRequesterT(t, s), newRequesterT(t, s)}

	clean := func(err error) bool {
		return err == nil || errors.Is(err, ErrNotEnabled) || errors.Is(err, ErrNoData)
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		r := requesters[i%len(requesters)]
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			for n := 0; n < calls; n++ {
				err := r.SendRequest([]byte("x"), nil)
				assert.Truef(t, clean(err), "SendRequest: %v", err)
				_, err = r.TakeReply()
				assert.Truef(t, clean(err), "TakeReply: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			<-start
			for n := 0; n < calls; n++ {
				req, err := replier.TakeRequest()
				if err != nil {
					assert.Truef(t, clean(err), "TakeRequest: %v", err)
					continue
				}
				err = replier.SendReply(req.Payload, ReplyTo(req))
				assert.Truef(t, clean(err), "SendReply: %v", err)
			}
		}()
	}

	close(start)
	require.NoError(t, requesters[0].Close())
	require.NoError(t, s.DeleteRequester(requesters[0]))
	require.NoError(t, p.DeleteService(s))
	wg.Wait()

	for _, e := range []Entity{requesters[0], requesters[1], replier} {
		assert.Equal(t, StateClosed, e.State())
	}
	_, err := requesters[1].TakeReply()
	assert.ErrorIs(t, err, ErrNotEnabled)
}
