// Package handler adapts a reclaim run to the AWS Lambda invocation model.
package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
	"github.com/raoulx24/snapshot-reclaimer/internal/reclaimer"
)

// Runner performs one reclaim run.
type Runner interface {
	RunOnce(ctx context.Context) (*reclaimer.Report, error)
}

// Handler is invoked once per trigger.
type Handler struct {
	runner Runner
	log    logging.Logger
}

func New(runner Runner, log logging.Logger) *Handler {
	return &Handler{runner: runner, log: log}
}

// Handle accepts the trigger payload (scheduled event or manual invoke) but
// does not interpret it. Only a fatal inventory failure fails the invocation.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) error {
	log := h.log
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With("aws_request_id", lc.AwsRequestID)
	}
	log.Debug("invocation received", "payload_bytes", len(payload))

	report, err := h.runner.RunOnce(ctx)
	if err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		log.Warn("run finished with failed deletions", "failed", len(failed))
	}
	return nil
}
