package llm

// GetTravelTools returns the function-calling definitions for the travel
// tools. Parameter names must match what the tool registry dispatches on.
func GetTravelTools() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: Function{
				Name:        "get_weather",
				Description: "Fetches the current weather for a given location, including temperature, description, and packing advice.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"location": map[string]interface{}{
							"type":        "string",
							"description": "City or place name, e.g. 'Tokyo'",
						},
					},
					"required": []string{"location"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "get_flights",
				Description: "Searches for flights between two locations, returning duration and price if available. Use city names like 'New York' or 'London'.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"from_location": map[string]interface{}{
							"type":        "string",
							"description": "Departure city name",
						},
						"to_location": map[string]interface{}{
							"type":        "string",
							"description": "Destination city name",
						},
					},
					"required": []string{"from_location", "to_location"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "get_attractions",
				Description: "Retrieves a list of top tourist attractions for a given location.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"location": map[string]interface{}{
							"type":        "string",
							"description": "City or place name",
						},
					},
					"required": []string{"location"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "get_currency_conversion",
				Description: "Converts an amount from one currency to another using stored exchange rates.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"amount": map[string]interface{}{
							"type":        "number",
							"description": "Amount to convert",
						},
						"from_cur": map[string]interface{}{
							"type":        "string",
							"description": "Source currency code, e.g. 'USD'",
						},
						"to_cur": map[string]interface{}{
							"type":        "string",
							"description": "Target currency code, e.g. 'EUR'",
						},
					},
					"required": []string{"amount", "from_cur", "to_cur"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "update_currency_rates",
				Description: "Updates the currency exchange rates in the database. Use when the user asks to refresh rates or a conversion reports unsupported currencies.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
					"required":   []string{},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "get_time",
				Description: "Fetches the current local time for a given location.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"location": map[string]interface{}{
							"type":        "string",
							"description": "City or place name",
						},
					},
					"required": []string{"location"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "get_joke",
				Description: "Returns a random travel-themed joke.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
					"required":   []string{},
				},
			},
		},
	}
}
