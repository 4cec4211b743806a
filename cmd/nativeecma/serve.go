package main

import (
	"context"
	"fmt"

	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/platform/data"
	"github.com/mintjams/go-nativeecma/platform/script"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const evaluateToolName = "evaluate"

// EvaluateInput is the argument object of the evaluate tool.
type EvaluateInput struct {
	Fragments []string       `json:"fragments"          jsonschema:"script fragments run in order in one shared scope"`
	Bindings  map[string]any `json:"bindings,omitempty" jsonschema:"globals declared before the first fragment"`
}

// EvaluateOutput is the structured result of the evaluate tool.
type EvaluateOutput struct {
	Kind  string `json:"kind"            jsonschema:"Value, NoValue or Error"`
	Value string `json:"value,omitempty" jsonschema:"final string value, or the diagnostic for Error"`
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	var bindings []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluate tool over MCP on stdin and stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			defaults, err := parseBindings(bindings)
			if err != nil {
				return err
			}
			e, err := startEngine(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Shutdown()

			server := newServer(e, cfg.Machine, defaults)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
	cmd.Flags().StringArrayVar(&bindings, "bind", nil, "default global binding name=value, may be repeated")
	return cmd
}

func newServer(ev script.Evaluator, machine types.Type, defaults map[string]any) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "nativeecma", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name: evaluateToolName,
		Description: fmt.Sprintf(
			"Run %s fragments in one fresh scope and return the final string value or a diagnostic.",
			machine,
		),
	}, evaluateHandler(ev, machine, defaults))
	return server
}

// evaluateHandler serves the evaluate tool. Bindings sent with a call
// override the server defaults of the same name.
func evaluateHandler(
	ev script.Evaluator,
	machine types.Type,
	defaults map[string]any,
) mcp.ToolHandlerFor[EvaluateInput, EvaluateOutput] {
	provider := data.NewCompositeProvider(
		data.NewStaticProvider(defaults),
		data.NewContextProvider(data.BindingsKey),
	)
	return func(
		ctx context.Context,
		_ *mcp.CallToolRequest,
		in EvaluateInput,
	) (*mcp.CallToolResult, EvaluateOutput, error) {
		ctx, err := provider.AddDataToContext(ctx, in.Bindings)
		if err != nil {
			return nil, EvaluateOutput{}, err
		}
		prelude, err := script.PreludeFrom(ctx, machine, provider)
		if err != nil {
			return nil, EvaluateOutput{}, err
		}
		fragments := in.Fragments
		if prelude != "" {
			fragments = append([]string{prelude}, fragments...)
		}

		result := ev.Evaluate(fragments...)
		out := EvaluateOutput{Kind: result.Kind().String()}
		if diag, failed := result.Diagnostic(); failed {
			out.Value = diag
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: diag}},
			}, out, nil
		}
		text, _ := result.Text()
		out.Value = text
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, out, nil
	}
}
