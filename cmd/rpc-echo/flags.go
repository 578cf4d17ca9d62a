package main

import (
	"flag"
	"fmt"
	"time"
)

const (
	roleReplier   = "replier"
	roleRequester = "requester"
	roleBoth      = "both"
)

type cliFlags struct {
	configPath string
	role       string
	requesters int
	requests   int
	timeout    time.Duration
	logLevel   string
}

func parseFlags() (*cliFlags, error) {
	f := &cliFlags{}
	flag.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&f.role, "role", roleBoth, "Endpoints to run: replier, requester or both")
	flag.IntVar(&f.requesters, "requesters", 2, "Number of requesters")
	flag.IntVar(&f.requests, "requests", 5, "Requests sent by each requester, 0 to run until stopped")
	flag.DurationVar(&f.timeout, "timeout", 5*time.Second, "Time a requester waits for each reply")
	flag.StringVar(&f.logLevel, "log-level", "", "Overrides the configured log level")
	flag.Parse()

	switch f.role {
	case roleReplier, roleRequester, roleBoth:
	default:
		return nil, fmt.Errorf("unknown role %q", f.role)
	}
	if f.requesters < 0 || f.requests < 0 {
		return nil, fmt.Errorf("requesters and requests must not be negative")
	}
	return f, nil
}

func (f *cliFlags) runsReplier() bool    { return f.role != roleRequester }
func (f *cliFlags) runsRequesters() bool { return f.role != roleReplier && f.requesters > 0 }
