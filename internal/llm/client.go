package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Function struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

type Tool struct {
	Type     string
	Function Function
}

type FunctionCall struct {
	Name      string
	Arguments map[string]interface{}
}

type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	ToolCalls        []ToolCall
}

// Client abstracts an LLM provider. GenerateWithTools lets the model pick a
// tool call; providers without function calling answer in plain text.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (Response, error)
}
