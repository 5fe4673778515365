package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Handler executes one tool with the raw arguments the model produced.
// Handlers always answer with a user-facing sentence.
type Handler func(ctx context.Context, args map[string]interface{}) string

// Registry maps tool names to handlers for dispatching LLM tool calls.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Dispatch runs the named tool. Unknown names are the model's fault, not the
// user's; the caller decides how to phrase that.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	h, ok := r.handlers[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return h(ctx, args), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRegistry registers the standard seven travel tools.
func BuildRegistry(weather *WeatherTool, flights *FlightsTool, attractions *AttractionsTool, localTime *TimeTool, joke *JokeTool, cur *CurrencyTool) *Registry {
	r := NewRegistry()
	r.Register("get_weather", func(ctx context.Context, args map[string]interface{}) string {
		return weather.Get(ctx, stringArg(args, "location"))
	})
	r.Register("get_flights", func(ctx context.Context, args map[string]interface{}) string {
		// Some models invent from_city/to_city; accept both spellings.
		from := stringArg(args, "from_location")
		if from == "" {
			from = stringArg(args, "from_city")
		}
		to := stringArg(args, "to_location")
		if to == "" {
			to = stringArg(args, "to_city")
		}
		return flights.Search(ctx, from, to)
	})
	r.Register("get_attractions", func(ctx context.Context, args map[string]interface{}) string {
		return attractions.Get(ctx, stringArg(args, "location"))
	})
	r.Register("get_currency_conversion", func(ctx context.Context, args map[string]interface{}) string {
		return cur.Convert(floatArg(args, "amount"), stringArg(args, "from_cur"), stringArg(args, "to_cur"))
	})
	r.Register("update_currency_rates", func(ctx context.Context, args map[string]interface{}) string {
		return cur.UpdateRates(ctx)
	})
	r.Register("get_time", func(ctx context.Context, args map[string]interface{}) string {
		return localTime.Get(ctx, stringArg(args, "location"))
	})
	r.Register("get_joke", func(ctx context.Context, args map[string]interface{}) string {
		return joke.Get()
	})
	return r
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func floatArg(args map[string]interface{}, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}
