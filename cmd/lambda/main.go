// Package main is the entry point for the games API Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pricofy/games-api/internal/app"
	"github.com/pricofy/games-api/internal/config"
	"github.com/pricofy/games-api/internal/handler"
	"github.com/pricofy/games-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	awsCfg, err := app.LoadAWS(ctx, cfg)
	if err != nil {
		logger.Log.Fatalw("aws config", "error", err)
	}
	clients := app.NewClients(awsCfg)

	fn := &function{
		api:    app.NewHandler(cfg, app.NewDynamoStore(clients.DynamoDB, cfg), clients.Translate, clients.Cognito, app.NewVerifier(cfg)),
		warmer: NewWarmer(clients.Lambda, cfg.FunctionName),
	}
	lambda.Start(fn.handleRequest)
}

type function struct {
	api    *handler.Handler
	warmer *Warmer
}

func (f *function) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return f.warmer.Handle(ctx, warmup)
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}

	return f.api.Handle(ctx, req)
}
