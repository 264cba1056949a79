// Command calorietrack-lambda serves the remote API from AWS Lambda behind
// API Gateway.
package main

import (
	"context"
	"log"

	"calorietrack/internal/config"
	"calorietrack/internal/logging"
	"calorietrack/internal/server"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: "json"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	h, _, err := server.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	lambda.Start(httpadapter.New(h).ProxyWithContext)
}
