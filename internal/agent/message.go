// Package agent runs the retrieval-augmented tool-call loop: a model
// decides each turn whether to call a tool or answer, and the loop
// executes pending calls until the model produces a final answer.
package agent

import (
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"lumen/internal/models"
)

// Role tags the message variants a conversation is built from.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured request from the model to run a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// Message is one entry of a conversation. Assistant messages may carry
// pending tool calls; tool messages answer exactly one call by id.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall // assistant only
	ToolCallID string     // tool result only
	ToolName   string     // tool result only
}

var thinkingPattern = regexp.MustCompile(models.ThinkingTag)

// stripThinking removes the model's internal scratch block so it never
// reaches stored history or the user-visible transcript.
func stripThinking(content string) string {
	return strings.TrimSpace(thinkingPattern.ReplaceAllString(content, ""))
}

// toLLMMessages converts the system prompt plus history into the chat
// model's wire format.
func toLLMMessages(systemPrompt string, history []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(history)+1)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))

	for _, msg := range history {
		switch msg.Role {
		case RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   call.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			out = append(out, mc)
		case RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: msg.ToolCallID,
						Name:       msg.ToolName,
						Content:    msg.Content,
					},
				},
			})
		}
	}
	return out
}
