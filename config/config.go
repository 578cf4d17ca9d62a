// Package config loads the YAML description of one service and turns it into
// transport QoS and endpoint parameters.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	rpc "github.com/RidgeA/pubsub-rpc"
	"github.com/RidgeA/pubsub-rpc/transport"
)

const (
	KindInMemory = "inmemory"
	KindAMQP     = "amqp"
	KindNATS     = "nats"

	RetainUntilTaken  = "until_taken"
	RetainUntilClosed = "until_closed"
)

type (
	Config struct {
		Service   string          `yaml:"service"`
		Type      string          `yaml:"type"`
		Transport TransportConfig `yaml:"transport"`
		Writer    WriterConfig    `yaml:"writer"`
		Reader    ReaderConfig    `yaml:"reader"`
		Requester RequesterConfig `yaml:"requester"`
		Log       LogConfig       `yaml:"log"`
		Metrics   MetricsConfig   `yaml:"metrics"`
	}

	TransportConfig struct {
		Kind string `yaml:"kind"`
		URL  string `yaml:"url"`
		// Prefix is the NATS subject prefix or the AMQP application id.
		Prefix string `yaml:"prefix,omitempty"`
	}

	WriterConfig struct {
		Reliability     string        `yaml:"reliability"`
		MaxBlockingTime time.Duration `yaml:"max_blocking_time"`
		HistoryDepth    int           `yaml:"history_depth,omitempty"`
	}

	ReaderConfig struct {
		Reliability  string `yaml:"reliability"`
		HistoryDepth int    `yaml:"history_depth,omitempty"`
	}

	RequesterConfig struct {
		Retention        string `yaml:"retention"`
		RetiredCacheSize int    `yaml:"retired_cache_size,omitempty"`
	}

	LogConfig struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development,omitempty"`
	}

	MetricsConfig struct {
		// Address serves /metrics when not empty.
		Address string `yaml:"address,omitempty"`
	}
)

func Default() Config {
	return Config{
		Service: "Echo",
		Type:    "EchoType",
		Transport: TransportConfig{
			Kind: KindInMemory,
		},
		Writer: WriterConfig{
			Reliability:     transport.Reliable.String(),
			MaxBlockingTime: transport.DefaultMaxBlockingTime,
		},
		Reader: ReaderConfig{
			Reliability: transport.Reliable.String(),
		},
		Requester: RequesterConfig{
			Retention:        RetainUntilTaken,
			RetiredCacheSize: 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Merge applies the non-zero values of source to c.
func (c *Config) Merge(source *Config) {
	if source.Service != "" {
		c.Service = source.Service
	}
	if source.Type != "" {
		c.Type = source.Type
	}

	if source.Transport.Kind != "" {
		c.Transport.Kind = source.Transport.Kind
	}
	if source.Transport.URL != "" {
		c.Transport.URL = source.Transport.URL
	}
	if source.Transport.Prefix != "" {
		c.Transport.Prefix = source.Transport.Prefix
	}

	if source.Writer.Reliability != "" {
		c.Writer.Reliability = source.Writer.Reliability
	}
	if source.Writer.MaxBlockingTime > 0 {
		c.Writer.MaxBlockingTime = source.Writer.MaxBlockingTime
	}
	if source.Writer.HistoryDepth > 0 {
		c.Writer.HistoryDepth = source.Writer.HistoryDepth
	}
	if source.Reader.Reliability != "" {
		c.Reader.Reliability = source.Reader.Reliability
	}
	if source.Reader.HistoryDepth > 0 {
		c.Reader.HistoryDepth = source.Reader.HistoryDepth
	}

	if source.Requester.Retention != "" {
		c.Requester.Retention = source.Requester.Retention
	}
	if source.Requester.RetiredCacheSize > 0 {
		c.Requester.RetiredCacheSize = source.Requester.RetiredCacheSize
	}

	if source.Log.Level != "" {
		c.Log.Level = source.Log.Level
	}
	if source.Log.Development {
		c.Log.Development = true
	}
	if source.Metrics.Address != "" {
		c.Metrics.Address = source.Metrics.Address
	}
}

// Load reads a YAML file and merges it over the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var err error
	if c.Service == "" {
		err = multierr.Append(err, fmt.Errorf("service name is empty"))
	}
	if c.Type == "" {
		err = multierr.Append(err, fmt.Errorf("service type is empty"))
	}

	switch c.Transport.Kind {
	case KindInMemory:
	case KindAMQP, KindNATS:
		if c.Transport.URL == "" {
			err = multierr.Append(err, fmt.Errorf("transport %s needs a url", c.Transport.Kind))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown transport kind %q", c.Transport.Kind))
	}

	if _, perr := ParseReliability(c.Writer.Reliability); perr != nil {
		err = multierr.Append(err, fmt.Errorf("writer: %w", perr))
	}
	if _, perr := ParseReliability(c.Reader.Reliability); perr != nil {
		err = multierr.Append(err, fmt.Errorf("reader: %w", perr))
	}
	if _, perr := c.Retention(); perr != nil {
		err = multierr.Append(err, perr)
	}
	return err
}

func ParseReliability(s string) (transport.Reliability, error) {
	switch s {
	case transport.Reliable.String():
		return transport.Reliable, nil
	case transport.BestEffort.String():
		return transport.BestEffort, nil
	default:
		return 0, fmt.Errorf("unknown reliability %q", s)
	}
}

func (c *Config) Retention() (rpc.RetentionPolicy, error) {
	switch c.Requester.Retention {
	case RetainUntilTaken:
		return rpc.RetainUntilTaken, nil
	case RetainUntilClosed:
		return rpc.RetainUntilClosed, nil
	default:
		return 0, fmt.Errorf("unknown retention %q", c.Requester.Retention)
	}
}

func (c *Config) WriterQos() (transport.DataWriterQos, error) {
	r, err := ParseReliability(c.Writer.Reliability)
	if err != nil {
		return transport.DataWriterQos{}, err
	}
	return transport.DataWriterQos{
		Reliability:     r,
		MaxBlockingTime: c.Writer.MaxBlockingTime,
		HistoryDepth:    c.Writer.HistoryDepth,
	}, nil
}

func (c *Config) ReaderQos() (transport.DataReaderQos, error) {
	r, err := ParseReliability(c.Reader.Reliability)
	if err != nil {
		return transport.DataReaderQos{}, err
	}
	return transport.DataReaderQos{
		Reliability:  r,
		HistoryDepth: c.Reader.HistoryDepth,
	}, nil
}

func (c *Config) endpointQos(q *rpc.EndpointQos) error {
	w, werr := c.WriterQos()
	r, rerr := c.ReaderQos()
	if err := multierr.Combine(werr, rerr); err != nil {
		return err
	}
	q.WriterQos = w
	q.ReaderQos = r
	return nil
}

// RequesterParams starts from the parameters s expects and applies the
// configured QoS. A QoS the service does not accept is reported by
// CreateRequester.
func (c *Config) RequesterParams(s *rpc.Service) (rpc.RequesterParams, error) {
	params := s.RequesterParams()
	if err := c.endpointQos(&params.Qos.EndpointQos); err != nil {
		return rpc.RequesterParams{}, err
	}

	retention, err := c.Retention()
	if err != nil {
		return rpc.RequesterParams{}, err
	}
	params.Retention = retention
	if c.Requester.RetiredCacheSize > 0 {
		params.RetiredCacheSize = c.Requester.RetiredCacheSize
	}
	return params, nil
}

func (c *Config) ReplierParams(s *rpc.Service) (rpc.ReplierParams, error) {
	params := s.ReplierParams()
	if err := c.endpointQos(&params.Qos.EndpointQos); err != nil {
		return rpc.ReplierParams{}, err
	}
	return params, nil
}
