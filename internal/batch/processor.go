// Package batch transforms every SWIFT MT message file in a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"fjacquet/reframe-client/internal/interpreter"
	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"
	"fjacquet/reframe-client/internal/report"
	"fjacquet/reframe-client/internal/session"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultExtensions are the message file extensions picked up when none are configured.
var DefaultExtensions = []string{".txt", ".mt", ".fin"}

// Options bound how hard a batch run hits the service.
type Options struct {
	Concurrency       int
	RequestsPerSecond float64
	Burst             int
	Extensions        []string
}

func (o Options) withDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.Burst < 1 {
		o.Burst = 1
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	return o
}

// Processor runs batch transformations. Every file gets its own session.
type Processor struct {
	transport   session.Transport
	interpreter *interpreter.Interpreter
	generator   *report.Generator
	opts        Options
	logger      logging.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(transport session.Transport, interp *interpreter.Interpreter, opts Options, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if interp == nil {
		interp = interpreter.New(logger)
	}
	return &Processor{
		transport:   transport,
		interpreter: interp,
		generator:   report.NewGenerator(logger),
		opts:        opts.withDefaults(),
		logger:      logger,
	}
}

// DiscoverFiles lists the message files directly inside dir, sorted by name.
// Extensions are matched case-insensitively.
func (p *Processor) DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range p.opts.Extensions {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run transforms every message file of inputDir and writes the formatted documents
// of each success to outputDir as <name>.xml. Per-file failures are reported in the
// returned rows, which follow the order of DiscoverFiles. An error is returned only
// when the run itself cannot proceed, e.g. on cancellation.
func (p *Processor) Run(ctx context.Context, inputDir, outputDir string) ([]report.BatchRow, error) {
	files, err := p.DiscoverFiles(inputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	p.logger.Info("Starting batch transformation",
		logging.F("input_dir", inputDir),
		logging.F("output_dir", outputDir),
		logging.F(logging.FieldCount, len(files)),
		logging.F("concurrency", p.opts.Concurrency))

	limiter := rate.NewLimiter(rate.Limit(p.opts.RequestsPerSecond), p.opts.Burst)
	rows := make([]report.BatchRow, len(files))
	var succeeded atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, file := range files {
		g.Go(func() error {
			row, err := p.processFile(ctx, limiter, file, outputDir)
			if err != nil {
				return err
			}
			if row.Status == report.StatusSuccess {
				succeeded.Add(1)
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rows, fmt.Errorf("batch transformation aborted: %w", err)
	}

	p.logger.Info("Batch transformation completed",
		logging.F(logging.FieldCount, len(files)),
		logging.F("succeeded", succeeded.Load()),
		logging.F("failed", int64(len(files))-succeeded.Load()))
	return rows, nil
}

func (p *Processor) processFile(ctx context.Context, limiter *rate.Limiter, file, outputDir string) (report.BatchRow, error) {
	name := filepath.Base(file)
	log := p.logger.WithField(logging.FieldInputFile, name)

	data, err := os.ReadFile(file)
	if err != nil {
		log.WithError(err).Warn("Failed to read message file")
		return report.BatchRow{
			File:    name,
			Status:  report.StatusFailure,
			Message: fmt.Sprintf("error reading file: %v", err),
		}, nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return report.BatchRow{}, err
	}

	sess := session.New(p.transport, p.interpreter, log)
	start := time.Now()
	outcome, err := sess.Submit(ctx, string(data))
	elapsed := time.Since(start)
	if errors.Is(err, session.ErrStaleResponse) {
		// the session is private to this file, so nothing can supersede it
		return report.BatchRow{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return report.BatchRow{}, ctxErr
	}

	var requestID string
	if snap := sess.Snapshot(); snap.Request != nil {
		requestID = snap.Request.ID
	}
	row := report.NewBatchRow(name, requestID, outcome, elapsed)
	if !outcome.IsSuccess() {
		log.Warn("Message could not be transformed",
			logging.F(logging.FieldKind, outcome.Failure.Kind),
			logging.F(logging.FieldError, outcome.Failure.Message))
		return row, nil
	}

	out := OutputPath(outputDir, name)
	if err := p.writeDocuments(out, outcome); err != nil {
		row.Status = report.StatusFailure
		row.Message = err.Error()
		log.WithError(err).Error("Failed to write output file")
		return row, nil
	}
	row.Output = out
	log.Debug("Wrote transformed documents",
		logging.F(logging.FieldOutputFile, out),
		logging.F(logging.FieldDocuments, row.Documents))
	return row, nil
}

// OutputPath is where the documents for input file name are written. The source
// extension is kept so that pay.txt and pay.mt do not share an output.
func OutputPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+".xml")
}

func (p *Processor) writeDocuments(path string, outcome models.TransformOutcome) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing output file: %w", cerr)
		}
	}()
	return p.generator.Render(f, outcome, report.FormatXML)
}
