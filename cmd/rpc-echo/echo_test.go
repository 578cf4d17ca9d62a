package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	rpc "github.com/RidgeA/pubsub-rpc"
	"github.com/RidgeA/pubsub-rpc/config"
	"github.com/RidgeA/pubsub-rpc/transport/inmemory"
)

func newService(t *testing.T, cfg *config.Config) *rpc.Service {
	t.Helper()
	tp := inmemory.New()
	p, err := rpc.NewParticipant(tp, rpc.SetError(t.Logf))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = p.Close()
		_ = tp.Close()
	})

	require.NoError(t, p.RegisterServiceType(cfg.Type))
	s, err := p.CreateService(cfg.Service, cfg.Type)
	require.NoError(t, err)
	return s
}

func TestEcho_RepliesUpperCase(t *testing.T) {
	cfg := config.Default()
	s := newService(t, &cfg)

	core, logs := observer.New(zap.InfoLevel)
	flags := &cliFlags{role: roleBoth, requesters: 2, requests: 3, timeout: time.Second}
	e := newEcho(s, &cfg, flags, zap.New(core))

	finished := make(chan struct{})
	require.NoError(t, e.start(func() { close(finished) }))

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("requesters did not finish")
	}
	require.NoError(t, e.stop(context.Background()))

	replies := logs.FilterMessage("reply").All()
	require.Len(t, replies, 6)
	for _, entry := range replies {
		assert.Contains(t, entry.ContextMap()["payload"], "HELLO")
	}
	assert.Zero(t, logs.FilterMessage("request timed out").Len())
	assert.Len(t, s.GetRequesters(), 2)
	assert.NotNil(t, s.GetReplier())
}

func TestEcho_TimeoutRetiresRequest(t *testing.T) {
	cfg := config.Default()
	s := newService(t, &cfg)

	core, logs := observer.New(zap.InfoLevel)
	flags := &cliFlags{role: roleRequester, requesters: 1, requests: 1, timeout: 10 * time.Millisecond}
	e := newEcho(s, &cfg, flags, zap.New(core))

	finished := make(chan struct{})
	require.NoError(t, e.start(func() { close(finished) }))
	<-finished
	require.NoError(t, e.stop(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("request timed out").Len())
	requesters := s.GetRequesters()
	require.Len(t, requesters, 1)
	assert.Empty(t, requesters[0].Outstanding())
}

func TestModule_InMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	flags := &cliFlags{role: roleBoth, requesters: 1, requests: 2, timeout: time.Second}

	var service *rpc.Service
	app := fxtest.New(t,
		fx.Supply(&cfg, flags),
		Module,
		fx.Populate(&service),
	)
	app.RequireStart()

	select {
	case <-app.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("echo did not shut the application down")
	}
	app.RequireStop()

	assert.False(t, service.IsActive())
}
