package agent

import (
	"context"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func newTestService(model *scriptedModel) *Service {
	factory := func(string) (llms.Model, error) { return model, nil }
	return NewService(factory, NewRegistry(), "default-model")
}

func TestChatAppendsHistory(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("hello there"),
		textResponse("still here"),
	}}
	svc := newTestService(model)

	answer, err := svc.Chat(context.Background(), "s1", "", "hi")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if answer.Content != "hello there" {
		t.Errorf("answer = %q", answer.Content)
	}

	if _, err := svc.Chat(context.Background(), "s1", "", "again"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	history := svc.Sessions().History("s1")
	if len(history) != 4 {
		t.Fatalf("history has %d messages, want 4", len(history))
	}
	if history[0].Content != "hi" || history[2].Content != "again" {
		t.Errorf("unexpected history order: %+v", history)
	}

	// The second model call must have seen the earlier turn.
	second := model.received[1]
	if len(second) != 4 { // system + 3 history entries
		t.Errorf("second call saw %d messages, want 4", len(second))
	}
}

func TestChatModelSwitchResetsHistory(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("first"),
		textResponse("second"),
	}}
	svc := newTestService(model)

	if _, err := svc.Chat(context.Background(), "s1", "model-a", "hi"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, err := svc.Chat(context.Background(), "s1", "model-b", "hi again"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	history := svc.Sessions().History("s1")
	if len(history) != 2 {
		t.Fatalf("history has %d messages after model switch, want 2", len(history))
	}
	if history[0].Content != "hi again" {
		t.Errorf("history not reset on model switch: %+v", history)
	}
}

func TestChatClearDropsSession(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse("hello")}}
	svc := newTestService(model)

	if _, err := svc.Chat(context.Background(), "s1", "", "hi"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	svc.Sessions().Clear("s1")
	if got := svc.Sessions().History("s1"); len(got) != 0 {
		t.Errorf("cleared session still has %d messages", len(got))
	}
}
