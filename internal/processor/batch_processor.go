package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"dealdesk/server/config"
	"dealdesk/server/internal/models"
	"dealdesk/server/internal/underwriting"
)

var ErrBatchTooLarge = errors.New("batch exceeds maximum size")

// BatchResult is the outcome for one listing, at the listing's input index.
type BatchResult struct {
	Index   int                    `json:"index"`
	Address string                 `json:"address"`
	Model   *models.FinancialModel `json:"model,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Err     error                  `json:"-"`
}

// BatchProcessor underwrites many listings with bounded concurrency
type BatchProcessor struct {
	logger      *logrus.Logger
	config      *config.Config
	assumptions underwriting.MarketAssumptions
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(cfg *config.Config, assumptions underwriting.MarketAssumptions, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchProcessor{
		logger:      logger,
		config:      cfg,
		assumptions: assumptions,
	}
}

// WithAssumptions returns a processor sharing this one's limits but
// computing with different assumptions.
func (p *BatchProcessor) WithAssumptions(assumptions underwriting.MarketAssumptions) *BatchProcessor {
	clone := *p
	clone.assumptions = assumptions
	return &clone
}

func (p *BatchProcessor) workers() int {
	if p.config == nil || p.config.BatchProcessing.ProcessorCount < 1 {
		return 1
	}
	return p.config.BatchProcessing.ProcessorCount
}

// Process computes one model per listing. Results keep input order and a
// failed listing never stops the others. Once ctx is done the listings not
// yet started report ctx's error.
func (p *BatchProcessor) Process(ctx context.Context, listings []models.PropertyListing) ([]BatchResult, error) {
	if p.config != nil && p.config.BatchProcessing.MaxBatchSize > 0 && len(listings) > p.config.BatchProcessing.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d listings, limit %d", ErrBatchTooLarge, len(listings), p.config.BatchProcessing.MaxBatchSize)
	}

	results := make([]BatchResult, len(listings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for i, listing := range listings {
		results[i] = BatchResult{Index: i, Address: listing.Address}
		if err := gctx.Err(); err != nil {
			results[i].fail(err)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].fail(err)
				return nil
			}
			m, err := underwriting.ComputeModel(listing, p.assumptions)
			if err != nil {
				results[i].fail(err)
				return nil
			}
			results[i].Model = m
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.WithFields(logrus.Fields{
		"listings": len(listings),
		"failed":   failed,
	}).Info("Processed underwriting batch")

	return results, nil
}

func (r *BatchResult) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}
