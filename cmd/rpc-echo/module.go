package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	rpc "github.com/RidgeA/pubsub-rpc"
	"github.com/RidgeA/pubsub-rpc/config"
	"github.com/RidgeA/pubsub-rpc/transport"
	"github.com/RidgeA/pubsub-rpc/transport/amqp"
	"github.com/RidgeA/pubsub-rpc/transport/inmemory"
	"github.com/RidgeA/pubsub-rpc/transport/nats"
)

var Module = fx.Module("rpc-echo",
	fx.Provide(
		provideLogger,
		provideRegistry,
		provideTransport,
		provideParticipant,
		provideService,
	),
	fx.Invoke(
		registerMetricsServer,
		registerEcho,
	),
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger, nil
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideTransport(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (transport.Participant, error) {
	errorf := logger.Named("transport").Sugar().Errorf

	var tp transport.Participant
	switch cfg.Transport.Kind {
	case config.KindInMemory:
		tp = inmemory.New()
	case config.KindAMQP:
		opts := []amqp.OptionsFunc{amqp.SetError(errorf)}
		if cfg.Transport.Prefix != "" {
			opts = append(opts, amqp.SetAppID(cfg.Transport.Prefix))
		}
		p := amqp.New(cfg.Transport.URL, opts...)
		if err := p.Initialize(); err != nil {
			return nil, err
		}
		tp = p
	case config.KindNATS:
		opts := []nats.OptionsFunc{nats.SetError(errorf), nats.SetClientName("rpc-echo")}
		if cfg.Transport.Prefix != "" {
			opts = append(opts, nats.SetSubjectPrefix(cfg.Transport.Prefix))
		}
		p := nats.New(cfg.Transport.URL, opts...)
		if err := p.Initialize(); err != nil {
			return nil, err
		}
		tp = p
	default:
		return nil, errors.New("unknown transport kind " + cfg.Transport.Kind)
	}

	lc.Append(fx.StopHook(tp.Close))
	return tp, nil
}

func provideParticipant(lc fx.Lifecycle, tp transport.Participant, logger *zap.Logger, reg *prometheus.Registry) (*rpc.Participant, error) {
	p, err := rpc.NewParticipant(tp,
		rpc.SetLogger(logger.Named("rpc")),
		rpc.SetMetrics(reg),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(p.Close))
	return p, nil
}

func provideService(lc fx.Lifecycle, p *rpc.Participant, cfg *config.Config) (*rpc.Service, error) {
	if err := p.RegisterServiceType(cfg.Type); err != nil {
		return nil, err
	}
	s, err := p.CreateService(cfg.Service, cfg.Type)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() error {
		return p.DeleteService(s)
	}))
	return s, nil
}

func registerMetricsServer(lc fx.Lifecycle, cfg *config.Config, reg *prometheus.Registry, logger *zap.Logger) {
	if cfg.Metrics.Address == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}

type echoInput struct {
	fx.In

	LC         fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Flags      *cliFlags
	Service    *rpc.Service
	Logger     *zap.Logger
}

func registerEcho(in echoInput) {
	e := newEcho(in.Service, in.Config, in.Flags, in.Logger.Named("echo"))

	lc := in.LC
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return e.start(func() {
				_ = in.Shutdowner.Shutdown()
			})
		},
		OnStop: func(ctx context.Context) error {
			return e.stop(ctx)
		},
	})
}
