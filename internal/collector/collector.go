// Package collector runs the lease-notice workflow for a list of tax
// identifiers: resolve each company, locate its notices in the window,
// extract every notice and accumulate the records.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fedlease/internal/config"
	apperrors "fedlease/internal/errors"
	"fedlease/internal/exporter"
	"fedlease/internal/fedresurs"
	"fedlease/internal/infrastructure"
	"fedlease/internal/lease"
	"fedlease/internal/ratelimit"
	"fedlease/pkg/contracts/domain"
)

// Registry is the part of the fedresurs client the collector needs
type Registry interface {
	ResolveCompany(ctx context.Context, inn string) (domain.CompanyToken, bool, error)
	LocateLeaseMessages(ctx context.Context, company domain.CompanyToken, window domain.DateWindow) ([]domain.MessageToken, error)
	FetchMessage(ctx context.Context, message domain.MessageToken) (*fedresurs.MessageDetail, error)
	DetailURL(message domain.MessageToken) string
}

// Summary counts what a run did
type Summary struct {
	Identifiers  int `json:"identifiers"`
	NotFound     int `json:"not_found"`
	Skipped      int `json:"skipped"`
	Messages     int `json:"messages"`
	Records      int `json:"records"`
	Unrecognized int `json:"unrecognized"`
}

// LogValue implements slog.LogValuer
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("identifiers", s.Identifiers),
		slog.Int("not_found", s.NotFound),
		slog.Int("skipped", s.Skipped),
		slog.Int("messages", s.Messages),
		slog.Int("records", s.Records),
		slog.Int("unrecognized", s.Unrecognized),
	)
}

// Collector drives one run. It is sequential: one registry call at a time.
type Collector struct {
	registry Registry
	gate     ratelimit.Gate
	logger   *slog.Logger
	metrics  *infrastructure.ScanMetrics
}

// New creates a collector. gate is waited on before every message detail
// request; metrics may be nil.
func New(registry Registry, gate ratelimit.Gate, logger *slog.Logger, metrics *infrastructure.ScanMetrics) *Collector {
	if gate == nil {
		gate = ratelimit.NewFixedGate(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		registry: registry,
		gate:     gate,
		logger:   infrastructure.WithComponent(logger, "collector"),
		metrics:  metrics,
	}
}

// Run processes inns in order. Unknown companies, unreadable listings and
// unrecognized messages are logged and skipped. A fatal error (see
// errors.IsFatal) stops the run at once and no table is returned.
func (c *Collector) Run(ctx context.Context, inns []string, window domain.DateWindow) (*exporter.Table, Summary, error) {
	table := exporter.NewTable()
	var sum Summary

	for _, inn := range inns {
		sum.Identifiers++
		if err := c.collectCompany(ctx, inn, window, table, &sum); err != nil {
			return nil, sum, err
		}
	}

	return table, sum, nil
}

func (c *Collector) collectCompany(ctx context.Context, inn string, window domain.DateWindow, table *exporter.Table, sum *Summary) error {
	c.logger.InfoContext(ctx, fmt.Sprintf(config.MsgProcessing, inn,
		window.Start.Format(config.InputDateLayout),
		window.LastDay().Format(config.InputDateLayout)))

	company, found, err := c.registry.ResolveCompany(ctx, inn)
	if err != nil {
		if apperrors.IsFatal(err) {
			return err
		}
		c.metrics.RecordCompany(ctx, "error")
		c.skip(ctx, inn, err, sum)
		return nil
	}
	if !found {
		c.metrics.RecordCompany(ctx, "not_found")
		sum.NotFound++
		c.logger.InfoContext(ctx, fmt.Sprintf(config.MsgCompanyNotFound, inn), slog.String("inn", inn))
		return nil
	}
	c.metrics.RecordCompany(ctx, "found")

	messages, err := c.registry.LocateLeaseMessages(ctx, company, window)
	if err != nil {
		if apperrors.IsFatal(err) {
			return err
		}
		c.skip(ctx, inn, err, sum)
		return nil
	}

	c.metrics.RecordMessages(ctx, len(messages))
	sum.Messages += len(messages)
	c.logger.InfoContext(ctx, fmt.Sprintf(config.MsgMessagesFound, len(messages)),
		slog.String("inn", inn),
		slog.String("company", string(company)))

	for _, message := range messages {
		if err := c.gate.Wait(ctx); err != nil {
			return apperrors.NewNetworkError("collection interrupted", err)
		}
		if err := c.collectMessage(ctx, message, table, sum); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) collectMessage(ctx context.Context, message domain.MessageToken, table *exporter.Table, sum *Summary) error {
	detail, err := c.registry.FetchMessage(ctx, message)
	if err != nil {
		if apperrors.IsFatal(err) {
			return err
		}
		// an unreadable body is treated like a message of unknown shape
		detail = nil
	}

	shape, rec, extractErr := lease.Extract(detail, c.registry.DetailURL(message))
	if extractErr != nil {
		number := string(message)
		var shapeErr *lease.ShapeError
		if errors.As(extractErr, &shapeErr) && shapeErr.Number != "" {
			number = shapeErr.Number
		}
		attrs := []any{slog.String("message", string(message)), slog.String("reason", extractErr.Error())}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		c.logger.WarnContext(ctx, fmt.Sprintf(config.MsgUnknownStructure, number), attrs...)
		sum.Unrecognized++
	}

	table.Append(rec)
	sum.Records++
	c.metrics.RecordExtraction(ctx, shape.String(), extractErr == nil)
	return nil
}

func (c *Collector) skip(ctx context.Context, inn string, err error, sum *Summary) {
	sum.Skipped++
	c.logger.WarnContext(ctx, "identifier skipped",
		slog.String("inn", inn),
		slog.String("error_type", string(apperrors.TypeOf(err))),
		slog.String("error", err.Error()))
}
