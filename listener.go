package rpc

import (
	"sync/atomic"

	"github.com/RidgeA/pubsub-rpc/transport"
)

type (
	// Listener receives notifications about a requester or replier. Callbacks
	// run on substrate goroutines and must not block.
	Listener interface {
		OnDataAvailable(Entity)
		OnMatched(Entity, transport.MatchedStatus)
	}

	// BaseListener implements Listener with no-ops. Embed it to override a
	// subset of the callbacks.
	BaseListener struct{}

	// DataAvailableFunc adapts a function to a Listener that ignores
	// matched notifications.
	DataAvailableFunc func(Entity)

	// listenerAdapter forwards substrate notifications of the writer and
	// reader of one endpoint to its Listener. The owner is swapped for the
	// decorated endpoint once the endpoint factory has run.
	listenerAdapter struct {
		listener Listener
		owner    atomic.Pointer[entityRef]
	}

	entityRef struct {
		Entity
	}
)

func (BaseListener) OnDataAvailable(Entity)                    {}
func (BaseListener) OnMatched(Entity, transport.MatchedStatus) {}

func (f DataAvailableFunc) OnDataAvailable(e Entity)                { f(e) }
func (DataAvailableFunc) OnMatched(Entity, transport.MatchedStatus) {}

func newListenerAdapter(l Listener, owner Entity) *listenerAdapter {
	if l == nil {
		return nil
	}
	a := &listenerAdapter{listener: l}
	a.setOwner(owner)
	return a
}

func (a *listenerAdapter) setOwner(e Entity) {
	if a == nil {
		return
	}
	a.owner.Store(&entityRef{Entity: e})
}

func (a *listenerAdapter) entity() Entity {
	return a.owner.Load().Entity
}

func (a *listenerAdapter) OnPublicationMatched(_ transport.DataWriter, s transport.MatchedStatus) {
	a.listener.OnMatched(a.entity(), s)
}

func (a *listenerAdapter) OnSubscriptionMatched(_ transport.DataReader, s transport.MatchedStatus) {
	a.listener.OnMatched(a.entity(), s)
}

func (a *listenerAdapter) OnDataAvailable(transport.DataReader) {
	a.listener.OnDataAvailable(a.entity())
}

// writerListener and readerListener avoid handing a typed nil to the substrate.
func (a *listenerAdapter) writerListener() transport.WriterListener {
	if a == nil {
		return nil
	}
	return a
}

func (a *listenerAdapter) readerListener() transport.ReaderListener {
	if a == nil {
		return nil
	}
	return a
}
