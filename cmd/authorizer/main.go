// Package main is the entry point for the cookie request authorizer.
package main

import (
	"log"

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

	lambda.Start(handler.NewAuthorizer(app.NewVerifier(cfg)).Authorize)
}
