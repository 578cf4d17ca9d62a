// Command rpc-echo runs the replier and requesters of an upper-casing echo
// service over the configured substrate.
package main

import (
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/RidgeA/pubsub-rpc/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rpc-echo: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags, err := parseFlags()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	app := fx.New(
		fx.Supply(&cfg, flags),
		fx.NopLogger,
		Module,
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}
