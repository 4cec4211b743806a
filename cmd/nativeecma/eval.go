package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mintjams/go-nativeecma/platform/data"
	"github.com/mintjams/go-nativeecma/platform/script"
	"github.com/mintjams/go-nativeecma/platform/script/loader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newEvalCommand(v *viper.Viper) *cobra.Command {
	var (
		exprs    []string
		bindings []string
	)

	cmd := &cobra.Command{
		Use:   "eval [file|url|script]...",
		Short: "Evaluate fragments in one shared scope and print the final value",
		Long: "Each argument is a file path, an http(s) or file URL, or inline script " +
			"text. Arguments run first, in order, then every --expr. A string final " +
			"value is printed; other values print nothing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			vars, err := parseBindings(bindings)
			if err != nil {
				return err
			}
			prelude, err := script.PreludeFrom(cmd.Context(), cfg.Machine, data.NewStaticProvider(vars))
			if err != nil {
				return err
			}

			var fragments []string
			if prelude != "" {
				fragments = append(fragments, prelude)
			}
			for _, arg := range args {
				l, err := loader.InferLoader(arg)
				if err != nil {
					return err
				}
				source, err := loader.ReadSource(l)
				if err != nil {
					return err
				}
				fragments = append(fragments, source)
			}
			fragments = append(fragments, exprs...)

			e, err := startEngine(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Shutdown()

			result := e.Evaluate(fragments...)
			if diag, failed := result.Diagnostic(); failed {
				return fmt.Errorf("evaluation failed: %s", diag)
			}
			if text, ok := result.Text(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&exprs, "expr", "e", nil, "inline fragment, may be repeated")
	cmd.Flags().StringArrayVar(&bindings, "bind", nil, "global binding name=value, may be repeated")
	return cmd
}

// parseBindings turns name=value pairs into typed values: true and false are
// booleans, numeric text is a number, and anything else, or a value in double
// quotes, is a string.
func parseBindings(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid binding %q: expected name=value", pair)
		}
		out[name] = bindingValue(raw)
	}
	return out, nil
}

func bindingValue(raw string) any {
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		if s, err := strconv.Unquote(raw); err == nil {
			return s
		}
	}
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return raw
}
