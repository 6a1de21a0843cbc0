package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
)

// maxTurns bounds the Agent/Tools cycle; a model stuck requesting
// tools forever still terminates with the apology message.
const maxTurns = 25

const apologyMessage = "I'm sorry, something went wrong while generating a response. Please try again."

// Loop is the two-state machine driving one conversation turn: the
// Agent state asks the model to respond or request tools, the Tools
// state executes pending calls, and the loop ends when a response
// carries no tool calls.
type Loop struct {
	model        llms.Model
	registry     *Registry
	systemPrompt string
}

func NewLoop(model llms.Model, registry *Registry, systemPrompt string) *Loop {
	return &Loop{model: model, registry: registry, systemPrompt: systemPrompt}
}

// Run executes the loop over the given history and returns the
// messages it appended. The last returned message is the final answer.
// Failures in the model call surface as an apology message, never as a
// crash of the session.
func (l *Loop) Run(ctx context.Context, history []Message) []Message {
	conversation := make([]Message, len(history))
	copy(conversation, history)

	var appended []Message
	add := func(msg Message) {
		conversation = append(conversation, msg)
		appended = append(appended, msg)
	}

	for turn := 0; turn < maxTurns; turn++ {
		response, err := l.callModel(ctx, conversation)
		if err != nil {
			log.Error().Err(err).Msg("Model call failed")
			add(Message{Role: RoleAssistant, Content: apologyMessage})
			return appended
		}
		add(response)

		if len(response.ToolCalls) == 0 {
			return appended
		}

		for _, result := range l.executeTools(ctx, response.ToolCalls) {
			add(result)
		}
	}

	log.Warn().Msg("Tool-call loop hit the turn limit")
	add(Message{Role: RoleAssistant, Content: apologyMessage})
	return appended
}

// callModel is the Agent state: one model invocation bound to the
// registry's tool schemas, with scratch markup stripped from the
// output before it is stored.
func (l *Loop) callModel(ctx context.Context, conversation []Message) (Message, error) {
	opts := []llms.CallOption{}
	if defs := l.registry.Definitions(); len(defs) > 0 {
		opts = append(opts, llms.WithTools(defs))
	}

	response, err := l.model.GenerateContent(ctx, toLLMMessages(l.systemPrompt, conversation), opts...)
	if err != nil {
		return Message{}, err
	}
	if len(response.Choices) == 0 {
		return Message{}, fmt.Errorf("no completion choices returned")
	}

	choice := response.Choices[0]
	msg := Message{
		Role:    RoleAssistant,
		Content: stripThinking(choice.Content),
	}
	for _, call := range choice.ToolCalls {
		if call.FunctionCall == nil {
			continue
		}
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.FunctionCall.Name,
			Arguments: call.FunctionCall.Arguments,
		})
	}
	return msg, nil
}

// executeTools is the Tools state: every pending call produces exactly
// one result tied to its call id. An unknown name or a failing tool
// yields an error result for that call only.
func (l *Loop) executeTools(ctx context.Context, calls []ToolCall) []Message {
	results := make([]Message, 0, len(calls))
	for _, call := range calls {
		results = append(results, l.executeTool(ctx, call))
	}
	return results
}

func (l *Loop) executeTool(ctx context.Context, call ToolCall) Message {
	result := Message{Role: RoleTool, ToolCallID: call.ID, ToolName: call.Name}

	tool, ok := l.registry.Lookup(call.Name)
	if !ok {
		log.Warn().Str("tool", call.Name).Msg("Model requested unknown tool")
		result.Content = fmt.Sprintf("Error: Tool '%s' not found.", call.Name)
		return result
	}

	var args map[string]any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			result.Content = fmt.Sprintf("Error executing tool %s: invalid arguments: %s", call.Name, err)
			return result
		}
	}

	log.Debug().Str("tool", call.Name).RawJSON("args", jsonOrNull(call.Arguments)).Msg("Executing tool")

	output, err := tool.Invoke(ctx, args)
	if err != nil {
		log.Error().Err(err).Str("tool", call.Name).Msg("Tool execution failed")
		result.Content = fmt.Sprintf("Error executing tool %s: %s", call.Name, err)
		return result
	}

	result.Content = output
	return result
}

func jsonOrNull(raw string) []byte {
	if raw == "" {
		return []byte("null")
	}
	return []byte(raw)
}
