package rpc

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/RidgeA/pubsub-rpc/transport"
)

func TestCreateService_Duplicate(t *testing.T) {
	p, s := newEchoService(t)

	_, err := p.CreateService(echoService, echoType)
	assert.ErrorIs(t, err, ErrServiceExists)
	assert.Same(t, s, p.FindService(echoService))
	assert.Nil(t, p.FindService("Missing"))
}

func TestCreateService_UnregisteredType(t *testing.T) {
	p, err := NewParticipant(newTestTransport(t), SetError(t.Logf))
	require.NoError(t, err)
	defer p.Close()

	s, err := p.CreateService(echoService, "Unknown")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrEntityCreation)
	assert.ErrorIs(t, err, transport.ErrUnknownType)
	assert.Nil(t, p.FindService(echoService))
}

func TestDeleteService_ReleasesTopics(t *testing.T) {
	p, s := newEchoService(t)
	newReplierT(t, s)
	r := newRequesterT(t, s)

	require.NoError(t, p.DeleteService(s))
	assert.Nil(t, p.FindService(echoService))
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, StateClosed, r.State())
	assert.ErrorIs(t, p.DeleteService(s), ErrBadParameter)

	again, err := p.CreateService(echoService, echoType)
	require.NoError(t, err)
	newReplierT(t, again)
}

func TestParticipant_Close(t *testing.T) {
	p, s := newEchoService(t)
	r := newRequesterT(t, s)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, StateClosed, r.State())

	_, err := p.CreateService("Other", echoType)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, s := newEchoServiceOn(t, newTestTransport(t), SetLogger(zap.New(core)))

	r := newRequesterT(t, s)
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.SendRequest([]byte("x"), nil), ErrNotEnabled)

	entries := logs.FilterMessageSnippet("disabled requester").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.NotZero(t, logs.FilterMessageSnippet("attached to service").Len())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, s := newEchoServiceOn(t, newTestTransport(t), SetMetrics(reg))
	m := p.metrics

	replier := newReplierT(t, s)
	r := newRequesterT(t, s)

	var info RequestInfo
	require.NoError(t, r.SendRequest([]byte("x"), &info))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outstanding.WithLabelValues(echoService)))

	req := takeRequestEventually(t, replier)
	require.NoError(t, replier.SendReply([]byte("y"), ReplyTo(req)))
	takeReplyEventually(t, r)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsSent.WithLabelValues(echoService)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTaken.WithLabelValues(echoService)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesSent.WithLabelValues(echoService)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesTaken.WithLabelValues(echoService)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.outstanding.WithLabelValues(echoService)))

	// a late duplicate of the answered request
	assert.False(t, r.base().accept(transport.NewSample(nil, transport.WriteParams{RelatedSampleIdentity: info.SampleIdentity}, time.Now())))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesDiscarded.WithLabelValues(echoService, discardDuplicate)))

	params := s.RequesterParams()
	params.Qos.ServiceName = "Other"
	_, err := s.CreateRequester(params)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.creationFailures.WithLabelValues(echoService, "requester")))
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewParticipant(newTestTransport(t), SetMetrics(reg))
	require.NoError(t, err)
	second, err := NewParticipant(newTestTransport(t), SetMetrics(reg))
	require.NoError(t, err)

	assert.Same(t, first.metrics.requestsSent, second.metrics.requestsSent)
}
