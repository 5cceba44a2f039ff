package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/orgpulse/internal/errors"
)

// RunSummary is published after every pipeline run
type RunSummary struct {
	RunID         string    `json:"run_id"`
	Org           string    `json:"org"`
	Stages        []string  `json:"stages"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	DurationMS    int64     `json:"duration_ms"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	Repositories  int       `json:"repositories"`
	Members       int       `json:"members"`
	Events        int       `json:"events"`
	DroppedEvents int       `json:"dropped_events"`
	Edges         int       `json:"edges"`
	RepoFailures  int       `json:"repo_failures"`
}

// Publisher sends run summaries to a NATS subject
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *logrus.Logger
}

// NewPublisher connects to url, a comma-separated server list
func NewPublisher(url, subject string, logger *logrus.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	nc, err := nats.Connect(url,
		nats.Name("orgpulse"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("NATS disconnected")
			}
		}),
	)
	if err != nil {
		return nil, errors.NetworkErrorf(err, "failed to connect to NATS at %s", url)
	}

	return &Publisher{nc: nc, subject: subject, logger: logger}, nil
}

// Publish sends one summary and flushes so it is on the wire before returning
func (p *Publisher) Publish(s RunSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return errors.ExternalErrorf(err, "failed to publish to NATS")
	}
	if err := p.nc.FlushTimeout(5 * time.Second); err != nil {
		return errors.ExternalErrorf(err, "failed to flush NATS connection")
	}

	p.logger.WithFields(logrus.Fields{
		"subject": p.subject,
		"run_id":  s.RunID,
		"success": s.Success,
	}).Info("Published run summary")
	return nil
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		_ = p.nc.Drain()
	}
}
