package agent

import (
	"context"
	"fmt"
	"log"

	"travel-assistant/internal/history"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/querycache"
	"travel-assistant/internal/tools"
)

// DefaultSystemPrompt frames the assistant when no prompt file is configured.
const DefaultSystemPrompt = "You are a helpful travel assistant. " +
	"Use the available tools to answer questions about weather, flights, " +
	"attractions, currency conversion, local time and travel jokes. " +
	"Answer briefly and in a friendly tone."

// Agent runs one turn of the conversation: consult the query cache, ask the
// model, execute the tool it picked, and remember the answer.
type Agent struct {
	client       llm.Client
	registry     *tools.Registry
	cache        *querycache.Cache
	sessions     *history.Manager
	systemPrompt string
}

// New wires an agent. cache may be nil to disable caching (every query goes
// to the model).
func New(client llm.Client, registry *tools.Registry, cache *querycache.Cache, sessions *history.Manager, systemPrompt string) *Agent {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Agent{
		client:       client,
		registry:     registry,
		cache:        cache,
		sessions:     sessions,
		systemPrompt: systemPrompt,
	}
}

// Respond answers one user message in the given chat, carrying that chat's
// session history into the prompt.
func (a *Agent) Respond(ctx context.Context, chatID int64, query string) (string, error) {
	answer, err := a.respond(ctx, a.sessions.Messages(chatID), query)
	if err != nil {
		return "", err
	}
	a.sessions.AppendUser(chatID, query)
	a.sessions.AppendAssistant(chatID, answer)
	return answer, nil
}

// RespondOnce answers a single query with caller-provided history, leaving
// the session manager untouched. The HTTP endpoint uses it.
func (a *Agent) RespondOnce(ctx context.Context, chatHistory []llm.Message, query string) (string, error) {
	return a.respond(ctx, chatHistory, query)
}

func (a *Agent) respond(ctx context.Context, prior []llm.Message, query string) (string, error) {
	if a.cache != nil {
		if answer, ok := a.cache.Lookup(query); ok {
			return answer, nil
		}
	}

	msgs := make([]llm.Message, 0, len(prior)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: a.systemPrompt})
	msgs = append(msgs, prior...)
	msgs = append(msgs, llm.Message{Role: "user", Content: query})

	resp, err := a.client.GenerateWithTools(ctx, msgs, llm.GetTravelTools())
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}

	answer := resp.Content
	toolName := querycache.PlainTextTool
	if len(resp.ToolCalls) > 0 {
		call := resp.ToolCalls[0]
		out, err := a.registry.Dispatch(ctx, call.Function.Name, call.Function.Arguments)
		if err != nil {
			log.Printf("tool dispatch: %v", err)
			return "Sorry, I can't help with that yet.", nil
		}
		answer = out
		toolName = call.Function.Name
	}

	if a.cache != nil {
		a.cache.Store(query, answer, toolName)
	}
	return answer, nil
}

// ResetContext drops the chat's conversation history.
func (a *Agent) ResetContext(chatID int64) {
	a.sessions.Reset(chatID)
}
