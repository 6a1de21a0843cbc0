package agent

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Tool is a capability the model may invoke by name.
type Tool interface {
	Name() string
	Description() string
	// Schema is the JSON schema of the tool's parameters object.
	Schema() map[string]any
	// Invoke runs the tool. Implementations convert their own failures
	// into a readable result string; a returned error is wrapped into
	// an error tool-result by the loop.
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// Registry maps tool names to capabilities, populated at session
// start and looked up at dispatch time.
type Registry struct {
	order  []string
	byName map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.byName[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.byName[t.Name()] = t
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns the tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Definitions exposes the registry as a tool schema list for the chat
// model.
func (r *Registry) Definitions() []llms.Tool {
	out := make([]llms.Tool, 0, len(r.order))
	for _, t := range r.List() {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Schema(),
			},
		})
	}
	return out
}
