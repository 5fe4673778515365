package history

import (
	"testing"

	"travel-assistant/internal/llm"
)

func TestHistoryAppendMessagesReset(t *testing.T) {
	h := NewManager()
	chatA := int64(1)
	chatB := int64(2)

	h.AppendUser(chatA, "what's the weather in Paris?")
	h.AppendAssistant(chatA, "Sunny, 24°C.")
	h.AppendUser(chatB, "tell me a joke")
	h.AppendAssistant(chatB, "ha")

	msgsA := h.Messages(chatA)
	msgsB := h.Messages(chatB)

	if len(msgsA) != 2 || len(msgsB) != 2 {
		t.Fatalf("unexpected lengths: A=%d B=%d", len(msgsA), len(msgsB))
	}
	if msgsA[0].Role != "user" || msgsA[0].Content != "what's the weather in Paris?" {
		t.Fatalf("unexpected A[0]: %+v", msgsA[0])
	}
	if msgsA[1].Role != "assistant" || msgsA[1].Content != "Sunny, 24°C." {
		t.Fatalf("unexpected A[1]: %+v", msgsA[1])
	}

	// Modifying the returned slice must not touch internal state.
	msgsA[0] = llm.Message{Role: "user", Content: "mutated"}
	if h.Messages(chatA)[0].Content != "what's the weather in Paris?" {
		t.Fatalf("internal state mutated via returned slice")
	}

	h.Reset(chatA)
	if len(h.Messages(chatA)) != 0 {
		t.Fatalf("reset did not clear chat A")
	}
	if len(h.Messages(chatB)) != 2 {
		t.Fatalf("reset should not affect other chats")
	}
}
