// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch turns storage notifications into conversion runs. Every
// record of a batch is handled in order and yields one outcome: processed,
// skipped or failed.
package dispatch

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/csv2parquet/internal/convert"
	"github.com/pdiddy/csv2parquet/internal/notify"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

// Record is one object-created notification.
type Record struct {
	Bucket string
	Key    string
}

// Runner converts one input file to one output file.
type Runner interface {
	RunWith(ctx context.Context, n *notify.Notifier, input, output string) (convert.Result, error)
}

// Recorder persists outcomes, e.g. the SQLite ledger.
type Recorder interface {
	Record(ctx context.Context, invocationID string, o types.RecordOutcome) error
}

// Dispatcher routes notification records through a Runner.
type Dispatcher struct {
	cfg      types.ConversionConfig
	runner   Runner
	recorder Recorder
	notifier *notify.Notifier
	now      func() time.Time
	newID    func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder stores every outcome in r.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithNotifier sets the logging handle. Each batch gets a copy tagged with
// its invocation ID.
func WithNotifier(n *notify.Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

// WithClock overrides the time source used for outcome timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDs overrides invocation ID generation.
func WithIDs(newID func() string) Option {
	return func(d *Dispatcher) { d.newID = newID }
}

// New creates a Dispatcher. Empty fields of cfg take their defaults.
func New(cfg types.ConversionConfig, runner Runner, opts ...Option) *Dispatcher {
	def := types.DefaultConversionConfig()
	if cfg.InputExtension == "" {
		cfg.InputExtension = def.InputExtension
	}
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = def.OutputFolder
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = def.OutputSuffix
	}
	if cfg.Scheme == "" {
		cfg.Scheme = def.Scheme
	}

	d := &Dispatcher{
		cfg:    cfg,
		runner: runner,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes every record and returns their outcomes, using a fresh
// invocation ID.
func (d *Dispatcher) Handle(ctx context.Context, records []Record) types.BatchReport {
	return d.HandleInvocation(ctx, d.newID(), records)
}

// HandleInvocation is Handle with a caller-chosen invocation ID.
func (d *Dispatcher) HandleInvocation(ctx context.Context, invocationID string, records []Record) types.BatchReport {
	n := d.notifier.WithInstance(invocationID)
	report := types.BatchReport{InvocationID: invocationID}

	for _, rec := range records {
		var o types.RecordOutcome
		if err := ctx.Err(); err != nil {
			o = types.RecordOutcome{
				Bucket:      rec.Bucket,
				Key:         rec.Key,
				Status:      types.OutcomeFailed,
				Reason:      err.Error(),
				ProcessedAt: d.now().UTC(),
			}
		} else {
			o = d.handleRecord(ctx, n, rec)
		}

		if d.recorder != nil {
			if err := d.recorder.Record(ctx, invocationID, o); err != nil {
				n.Warnf("recording outcome for %s/%s: %v", rec.Bucket, rec.Key, err)
			}
		}
		report.Add(o)
	}

	n.Infof("batch done: %d processed, %d skipped, %d failed (total: %d)",
		report.Processed, report.Skipped, report.Failed, report.Total())
	return report
}

func (d *Dispatcher) handleRecord(ctx context.Context, n *notify.Notifier, rec Record) types.RecordOutcome {
	o := types.RecordOutcome{Bucket: rec.Bucket, Key: rec.Key}
	n.Infof("Bucket: %s", rec.Bucket)
	n.Infof("Key: %s", rec.Key)

	input, output, ok := d.Paths(rec)
	if !ok {
		n.Infof("Key: %s, is not a %s file. Skipping.", rec.Key, d.cfg.InputExtension)
		o.Status = types.OutcomeSkipped
		o.Reason = "not a " + d.cfg.InputExtension + " file"
		o.ProcessedAt = d.now().UTC()
		return o
	}
	o.Input, o.Output = input, output
	n.Infof("Input path: %s", input)
	n.Infof("Output path: %s", output)

	res, err := d.runner.RunWith(ctx, n, input, output)
	o.ProcessedAt = d.now().UTC()
	if err != nil {
		o.Status = types.OutcomeFailed
		o.Reason = err.Error()
		var se *convert.StageError
		if errors.As(err, &se) {
			o.Stage = se.Stage
		}
		n.Warnf("failed %s: %v", input, err)
		return o
	}

	o.Status = types.OutcomeProcessed
	o.Rows = res.Rows
	n.Infof("converted %s (%d rows)", input, res.Rows)
	return o
}

// Paths derives the input and output locators for rec. ok is false when the
// key does not carry the configured input extension or has an empty base
// name. The output is placed in the output folder of the same bucket and is
// named after the key's base name, without the key's directories.
func (d *Dispatcher) Paths(rec Record) (input, output string, ok bool) {
	base := path.Base(rec.Key)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if rec.Key == "" || ext != d.cfg.InputExtension || stem == "" {
		return "", "", false
	}

	input = d.cfg.Scheme + joinKey(rec.Bucket, rec.Key)
	output = d.cfg.Scheme + joinKey(rec.Bucket, d.cfg.OutputFolder, stem+d.cfg.OutputSuffix)
	return input, output, true
}

// joinKey joins parts with single slashes. Keys are not cleaned: "//" and
// ".." are valid inside object keys.
func joinKey(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			if !strings.HasSuffix(b.String(), "/") {
				b.WriteByte('/')
			}
			p = strings.TrimPrefix(p, "/")
		}
		b.WriteString(p)
	}
	return b.String()
}
