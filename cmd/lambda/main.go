package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"

	"vinylchat/internal/app"
	"vinylchat/internal/config"
)

// chiLambda survives across warm invocations, and with it the loaded catalog.
var chiLambda *chiadapter.ChiLambdaV2

func init() {
	coldStart := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	mux, ok := application.Handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(mux)

	slog.Info("Lambda cold start completed", "duration_ms", time.Since(coldStart).Milliseconds())
}

// Handler proxies an API Gateway v2 request through the chi router.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
