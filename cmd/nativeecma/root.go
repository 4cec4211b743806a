package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mintjams/go-nativeecma/engine"
	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "NATIVEECMA"

	flagPoolSize     = "pool-size"
	flagMachine      = "machine"
	flagLogLevel     = "log-level"
	flagIdentityPath = "identity-path"
	flagVerifyCache  = "verify-cache"
)

var version = "dev"

// config is the resolved flag, environment and default values.
type config struct {
	PoolSize     int
	Machine      types.Type
	LogLevel     slog.Level
	IdentityPath string
	VerifyCache  bool
}

func loadConfig(v *viper.Viper) (*config, error) {
	machine, err := types.Parse(v.GetString(flagMachine))
	if err != nil {
		return nil, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(flagLogLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return &config{
		PoolSize:     v.GetInt(flagPoolSize),
		Machine:      machine,
		LogLevel:     level,
		IdentityPath: v.GetString(flagIdentityPath),
		VerifyCache:  v.GetBool(flagVerifyCache),
	}, nil
}

// startEngine builds and initializes an engine from cfg, logging to w.
func startEngine(cfg *config, w io.Writer) (*engine.Engine, error) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	e, err := engine.New(
		engine.WithLogHandler(handler),
		engine.WithMachineType(cfg.Machine),
		engine.WithCacheVerification(cfg.VerifyCache),
	)
	if err != nil {
		return nil, err
	}
	if err := e.Init(cfg.IdentityPath, cfg.PoolSize); err != nil {
		return nil, err
	}
	return e, nil
}

// newViper reads settings from NATIVEECMA_* variables, with dashes in flag
// names mapped to underscores.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	v := newViper()

	root := &cobra.Command{
		Use:           "nativeecma",
		Short:         "Evaluate script fragments on a pool of isolated runtimes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.Int(flagPoolSize, 0, "number of workers (0 means one per CPU)")
	flags.String(flagMachine, types.JavaScript.String(), "script machine: javascript or starlark")
	flags.String(flagLogLevel, "warn", "log level: debug, info, warn or error")
	flags.String(flagIdentityPath, "", "runtime data path hint, recorded in logs")
	flags.Bool(flagVerifyCache, true, "check code cache hits against a SHA-256 digest")
	_ = v.BindPFlags(flags)

	root.AddCommand(newEvalCommand(v), newServeCommand(v))
	return root
}
