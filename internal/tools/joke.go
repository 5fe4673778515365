package tools

import "math/rand"

var jokes = []string{
	"Why did the airplane go to therapy? It had too many baggage issues.",
	"Why don't mountains get lost? They always know their peak.",
	"What do you call a dinosaur that takes the scenic route? A Tour-a-saurus.",
}

// JokeTool returns a random travel-themed joke.
type JokeTool struct{}

func NewJokeTool() *JokeTool { return &JokeTool{} }

func (t *JokeTool) Get() string {
	return jokes[rand.Intn(len(jokes))]
}
