package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"travel-assistant/internal/config"
	"travel-assistant/internal/currency"
	"travel-assistant/internal/storage"
	"travel-assistant/internal/tools"
)

// LocationParams is shared by the tools that take a single place name.
type LocationParams struct {
	Location string `json:"location" mcp:"city or place name, e.g. 'Paris'"`
}

type FlightsParams struct {
	FromLocation string `json:"from_location" mcp:"departure city name, e.g. 'New York'"`
	ToLocation   string `json:"to_location" mcp:"destination city name, e.g. 'London'"`
}

type ConversionParams struct {
	Amount  float64 `json:"amount" mcp:"amount of money to convert"`
	FromCur string  `json:"from_cur" mcp:"source currency code, e.g. 'USD'"`
	ToCur   string  `json:"to_cur" mcp:"target currency code, e.g. 'GBP'"`
}

type EmptyParams struct{}

// TravelMCPServer exposes the travel tools over MCP so external assistants
// can use them directly.
type TravelMCPServer struct {
	weather     *tools.WeatherTool
	flights     *tools.FlightsTool
	attractions *tools.AttractionsTool
	localTime   *tools.TimeTool
	joke        *tools.JokeTool
	cur         *tools.CurrencyTool
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func (s *TravelMCPServer) GetWeather(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[LocationParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.weather.Get(ctx, params.Arguments.Location)), nil
}

func (s *TravelMCPServer) GetFlights(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[FlightsParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.flights.Search(ctx, params.Arguments.FromLocation, params.Arguments.ToLocation)), nil
}

func (s *TravelMCPServer) GetAttractions(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[LocationParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.attractions.Get(ctx, params.Arguments.Location)), nil
}

func (s *TravelMCPServer) GetCurrencyConversion(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ConversionParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	return textResult(s.cur.Convert(args.Amount, args.FromCur, args.ToCur)), nil
}

func (s *TravelMCPServer) UpdateCurrencyRates(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[EmptyParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.cur.UpdateRates(ctx)), nil
}

func (s *TravelMCPServer) GetTime(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[LocationParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.localTime.Get(ctx, params.Arguments.Location)), nil
}

func (s *TravelMCPServer) GetJoke(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[EmptyParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.joke.Get()), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ratesDB, err := storage.Open(cfg.RatesDBPath)
	if err != nil {
		log.Fatalf("❌ failed to open rates db: %v", err)
	}
	defer ratesDB.Close()
	rateStore := storage.NewRateStore(ratesDB)
	if err := rateStore.Init(); err != nil {
		log.Fatalf("❌ failed to init rates schema: %v", err)
	}

	fetcher := currency.NewFetcher(cfg.ExchangeRateBaseURL, cfg.ExchangeRateAPIKey)
	converter := currency.NewConverter(fetcher, rateStore, nil)

	geo := tools.NewGeocoder()
	travelServer := &TravelMCPServer{
		weather:     tools.NewWeatherTool(cfg.OpenWeatherMapAPIKey, geo),
		flights:     tools.NewFlightsTool(cfg.AmadeusAPIKey, cfg.AmadeusAPISecret, ""),
		attractions: tools.NewAttractionsTool(cfg.GeoapifyAPIKey, geo),
		localTime:   tools.NewTimeTool(cfg.TimezoneDBAPIKey, geo),
		joke:        tools.NewJokeTool(),
		cur:         tools.NewCurrencyTool(converter),
	}

	log.Printf("🚀 Starting Travel MCP Server")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "travel-assistant-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_weather",
		Description: "Gets current weather and packing advice for a location",
	}, travelServer.GetWeather)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_flights",
		Description: "Searches flight offers between two cities for today",
	}, travelServer.GetFlights)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_attractions",
		Description: "Lists top tourist attractions near a location",
	}, travelServer.GetAttractions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_currency_conversion",
		Description: "Converts an amount between currencies using stored exchange rates",
	}, travelServer.GetCurrencyConversion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_currency_rates",
		Description: "Fetches the latest exchange rates and stores them",
	}, travelServer.UpdateCurrencyRates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_time",
		Description: "Gets the current local time of a location",
	}, travelServer.GetTime)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_joke",
		Description: "Tells a random travel joke",
	}, travelServer.GetJoke)

	log.Printf("📋 Registered 7 travel tools")
	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
