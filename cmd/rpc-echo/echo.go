package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	rpc "github.com/RidgeA/pubsub-rpc"
	"github.com/RidgeA/pubsub-rpc/config"
)

var errReplyTimeout = errors.New("no reply in time")

type echo struct {
	service *rpc.Service
	cfg     *config.Config
	flags   *cliFlags
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newEcho(s *rpc.Service, cfg *config.Config, flags *cliFlags, logger *zap.Logger) *echo {
	return &echo{service: s, cfg: cfg, flags: flags, logger: logger}
}

// wakeup returns a listener signalling a channel of capacity one, so a
// notification arriving while the loop drains is never lost.
func wakeup() (rpc.Listener, <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return rpc.DataAvailableFunc(func(rpc.Entity) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}), ch
}

// start creates the endpoints and runs them until stop. finished is called
// once every requester has sent its requests.
func (e *echo) start(finished func()) error {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	if e.flags.runsReplier() {
		params, err := e.cfg.ReplierParams(e.service)
		if err != nil {
			cancel()
			return err
		}
		listener, wake := wakeup()
		params.Listener = listener
		r, err := e.service.CreateReplier(params)
		if err != nil {
			cancel()
			return err
		}

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.serve(ctx, r, wake)
		}()
	}

	if !e.flags.runsRequesters() {
		return nil
	}

	var requesters sync.WaitGroup
	for i := 1; i <= e.flags.requesters; i++ {
		params, err := e.cfg.RequesterParams(e.service)
		if err != nil {
			cancel()
			return err
		}
		listener, wake := wakeup()
		params.Listener = listener
		r, err := e.service.CreateRequester(params)
		if err != nil {
			cancel()
			return err
		}

		e.wg.Add(1)
		requesters.Add(1)
		go func(i int) {
			defer e.wg.Done()
			defer requesters.Done()
			e.request(ctx, i, r, wake)
		}(i)
	}

	if e.flags.requests > 0 {
		go func() {
			requesters.Wait()
			if ctx.Err() == nil {
				finished()
			}
		}()
	}
	return nil
}

func (e *echo) stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *echo) serve(ctx context.Context, r rpc.Replier, wake <-chan struct{}) {
	e.logger.Info("replier started", zap.Stringer("guid", r.GUID()))
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}

		if err := e.answer(r); err != nil {
			e.logger.Error("replier failed", zap.Error(err))
		}
	}
}

// answer replies to every pending request with its upper-cased payload.
func (e *echo) answer(r rpc.Replier) error {
	requests, err := r.TakeRequests(0)
	if errors.Is(err, rpc.ErrNoData) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, req := range requests {
		err = multierr.Append(err, r.SendReply(bytes.ToUpper(req.Payload), rpc.ReplyTo(req)))
	}
	return err
}

func (e *echo) request(ctx context.Context, i int, r rpc.Requester, wake <-chan struct{}) {
	logger := e.logger.With(zap.Int("requester", i), zap.Stringer("guid", r.GUID()))

	for n := 1; e.flags.requests == 0 || n <= e.flags.requests; n++ {
		var info rpc.RequestInfo
		payload := fmt.Sprintf("hello %d from requester %d", n, i)
		if err := r.SendRequest([]byte(payload), &info); err != nil {
			logger.Error("send failed", zap.Error(err))
			return
		}
		token := info.SampleIdentity

		reply, err := e.await(ctx, r, wake)
		switch {
		case ctx.Err() != nil:
			return
		case errors.Is(err, errReplyTimeout):
			r.Retire(token)
			logger.Warn("request timed out", zap.Stringer("token", token))
		case err != nil:
			logger.Error("take failed", zap.Error(err))
			return
		default:
			logger.Info("reply",
				zap.Stringer("token", reply.Info.RelatedSampleIdentity),
				zap.ByteString("payload", reply.Payload),
			)
		}
	}
}

func (e *echo) await(ctx context.Context, r rpc.Requester, wake <-chan struct{}) (rpc.Sample, error) {
	timer := time.NewTimer(e.flags.timeout)
	defer timer.Stop()

	for {
		reply, err := r.TakeReply()
		if !errors.Is(err, rpc.ErrNoData) {
			return reply, err
		}

		select {
		case <-ctx.Done():
			return rpc.Sample{}, ctx.Err()
		case <-timer.C:
			return rpc.Sample{}, errReplyTimeout
		case <-wake:
		}
	}
}
