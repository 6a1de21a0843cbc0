package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// scriptedModel replays a fixed sequence of responses, one per
// GenerateContent call.
type scriptedModel struct {
	responses []*llms.ContentResponse
	errs      []error
	calls     int
	received  [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.received = append(m.received, messages)
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.responses) {
		return nil, fmt.Errorf("unexpected model call %d", i)
	}
	return m.responses[i], nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func toolCallResponse(calls ...llms.ToolCall) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{ToolCalls: calls}}}
}

func functionCall(id, name, args string) llms.ToolCall {
	return llms.ToolCall{
		ID:           id,
		Type:         "function",
		FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
	}
}

// echoTool records its invocations and echoes the "text" argument.
type echoTool struct {
	name    string
	invoked []map[string]any
	err     error
}

func (t *echoTool) Name() string { return t.name }

func (t *echoTool) Description() string { return "echoes its input" }

func (t *echoTool) Schema() map[string]any { return map[string]any{"type": "object"} }
func (t *echoTool) Invoke(_ context.Context, args map[string]any) (string, error) {
	t.invoked = append(t.invoked, args)
	if t.err != nil {
		return "", t.err
	}
	text, _ := args["text"].(string)
	return "echo: " + text, nil
}

func TestLoopTerminatesWithoutToolCalls(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse("direct answer")}}
	loop := NewLoop(model, NewRegistry(), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if len(out) != 1 {
		t.Fatalf("appended %d messages, want 1", len(out))
	}
	if out[0].Role != RoleAssistant || out[0].Content != "direct answer" {
		t.Errorf("unexpected final message: %+v", out[0])
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
}

func TestLoopExecutesToolsThenAnswers(t *testing.T) {
	tool := &echoTool{name: "echo"}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(functionCall("call-1", "echo", `{"text":"ping"}`)),
		textResponse("done"),
	}}
	loop := NewLoop(model, NewRegistry(tool), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if len(out) != 3 {
		t.Fatalf("appended %d messages, want 3 (assistant, tool, assistant)", len(out))
	}

	if len(out[0].ToolCalls) != 1 || out[0].ToolCalls[0].Name != "echo" {
		t.Errorf("first message should carry the echo tool call: %+v", out[0])
	}
	if out[1].Role != RoleTool || out[1].ToolCallID != "call-1" || out[1].Content != "echo: ping" {
		t.Errorf("unexpected tool result: %+v", out[1])
	}
	if out[2].Role != RoleAssistant || out[2].Content != "done" {
		t.Errorf("unexpected final answer: %+v", out[2])
	}

	if len(tool.invoked) != 1 || tool.invoked[0]["text"] != "ping" {
		t.Errorf("tool saw args %+v", tool.invoked)
	}
}

func TestLoopUnknownToolDoesNotBlockSiblings(t *testing.T) {
	tool := &echoTool{name: "echo"}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(
			functionCall("call-1", "no_such_tool", `{}`),
			functionCall("call-2", "echo", `{"text":"still works"}`),
		),
		textResponse("done"),
	}}
	loop := NewLoop(model, NewRegistry(tool), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if len(out) != 4 {
		t.Fatalf("appended %d messages, want 4", len(out))
	}

	unknown := out[1]
	if unknown.ToolCallID != "call-1" || !strings.Contains(unknown.Content, "Tool 'no_such_tool' not found") {
		t.Errorf("unexpected unknown-tool result: %+v", unknown)
	}
	valid := out[2]
	if valid.ToolCallID != "call-2" || valid.Content != "echo: still works" {
		t.Errorf("valid sibling call did not execute: %+v", valid)
	}
}

func TestLoopToolErrorBecomesErrorResult(t *testing.T) {
	tool := &echoTool{name: "echo", err: errors.New("backend down")}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(functionCall("call-1", "echo", `{}`)),
		textResponse("done"),
	}}
	loop := NewLoop(model, NewRegistry(tool), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	result := out[1]
	if !strings.Contains(result.Content, "Error executing tool echo") || !strings.Contains(result.Content, "backend down") {
		t.Errorf("unexpected error result: %q", result.Content)
	}
}

func TestLoopInvalidArgumentsBecomeErrorResult(t *testing.T) {
	tool := &echoTool{name: "echo"}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(functionCall("call-1", "echo", `{not json`)),
		textResponse("done"),
	}}
	loop := NewLoop(model, NewRegistry(tool), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !strings.Contains(out[1].Content, "invalid arguments") {
		t.Errorf("unexpected result for malformed args: %q", out[1].Content)
	}
	if len(tool.invoked) != 0 {
		t.Error("tool must not run on malformed arguments")
	}
}

func TestLoopStripsThinkingBlocks(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("<thinking>scratch work\nmore scratch</thinking>\nThe answer is 42."),
	}}
	loop := NewLoop(model, NewRegistry(), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if out[0].Content != "The answer is 42." {
		t.Errorf("thinking block not stripped: %q", out[0].Content)
	}
}

func TestLoopModelFailureYieldsApology(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("rate limited")}}
	loop := NewLoop(model, NewRegistry(), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if len(out) != 1 || out[0].Content != apologyMessage {
		t.Errorf("expected apology message, got %+v", out)
	}
}

func TestLoopHitsTurnLimit(t *testing.T) {
	tool := &echoTool{name: "echo"}
	responses := make([]*llms.ContentResponse, maxTurns)
	for i := range responses {
		responses[i] = toolCallResponse(functionCall(fmt.Sprintf("call-%d", i), "echo", `{}`))
	}
	model := &scriptedModel{responses: responses}
	loop := NewLoop(model, NewRegistry(tool), "system")

	out := loop.Run(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	last := out[len(out)-1]
	if last.Role != RoleAssistant || last.Content != apologyMessage {
		t.Errorf("runaway loop should end with the apology message, got %+v", last)
	}
	if model.calls != maxTurns {
		t.Errorf("model called %d times, want %d", model.calls, maxTurns)
	}
}
