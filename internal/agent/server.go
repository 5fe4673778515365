package agent

import (
	"encoding/json"
	"log"
	"net/http"

	"travel-assistant/internal/llm"
)

type chatEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmRequest struct {
	Input       string      `json:"input"`
	ChatHistory []chatEntry `json:"chat_history"`
}

type llmResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves POST /llm: {"input": "...", "chat_history": [...]} in,
// {"response": "..."} out. Only user and assistant roles from the history
// are forwarded to the model.
func (a *Agent) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/llm", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		var req llmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request: 'input' field is required"})
			return
		}

		var prior []llm.Message
		for _, entry := range req.ChatHistory {
			if entry.Role == "user" || entry.Role == "assistant" {
				prior = append(prior, llm.Message{Role: entry.Role, Content: entry.Content})
			}
		}

		answer, err := a.RespondOnce(r.Context(), prior, req.Input)
		if err != nil {
			log.Printf("llm endpoint: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, llmResponse{Response: answer})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
