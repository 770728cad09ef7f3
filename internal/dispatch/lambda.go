// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/pdiddy/csv2parquet/pkg/types"
)

// RecordsFromEvent extracts bucket and key from each S3 event record. The
// URL-decoded key is preferred; S3 encodes spaces and special characters in
// the raw key.
func RecordsFromEvent(ev events.S3Event) []Record {
	records := make([]Record, 0, len(ev.Records))
	for _, r := range ev.Records {
		key := r.S3.Object.URLDecodedKey
		if key == "" {
			key = r.S3.Object.Key
		}
		records = append(records, Record{Bucket: r.S3.Bucket.Name, Key: key})
	}
	return records
}

// HandleEvent logs the received event and dispatches its records. The Lambda
// request ID is used as invocation ID when ctx carries one.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev events.S3Event) types.BatchReport {
	id := d.newID()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		id = lc.AwsRequestID
	}

	n := d.notifier.WithInstance(id)
	if raw, err := json.Marshal(ev); err == nil {
		n.Infof("Event: %s", raw)
	}
	n.Infof("received %d record(s)", len(ev.Records))

	return d.HandleInvocation(ctx, id, RecordsFromEvent(ev))
}

// LambdaHandler returns a handler for lambda.Start. The batch report is the
// function response. When failOnError is set, a batch with failures also
// returns an error so the invocation is reported as failed.
func (d *Dispatcher) LambdaHandler(failOnError bool) func(context.Context, events.S3Event) (types.BatchReport, error) {
	return func(ctx context.Context, ev events.S3Event) (types.BatchReport, error) {
		report := d.HandleEvent(ctx, ev)
		if failOnError && report.HasFailures() {
			return report, fmt.Errorf("%d of %d record(s) failed", report.Failed, report.Total())
		}
		return report, nil
	}
}
