// Command snapshot-reclaimer-lambda runs one reclaim pass per Lambda
// invocation. The config file path, if any, comes from
// SNAPSHOT_RECLAIMER_CONFIG; otherwise defaults plus the Lambda
// environment's AWS settings are used.
package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/raoulx24/snapshot-reclaimer/internal/app"
	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/handler"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
)

func main() {
	// Load config
	cfg, err := config.Load(os.Getenv("SNAPSHOT_RECLAIMER_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Lambda ships stderr to CloudWatch; json keeps fields queryable
	logg, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: "json"})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	a, err := app.New(context.Background(), cfg, logg)
	if err != nil {
		log.Fatalf("failed to create reclaimer: %v", err)
	}

	lambda.Start(handler.New(a, logg).Handle)
}
