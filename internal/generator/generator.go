package generator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sashakarcz/adminpw/internal/logger"
	"github.com/sashakarcz/adminpw/internal/metrics"
	"github.com/sashakarcz/adminpw/internal/passhash"
	"github.com/sashakarcz/adminpw/internal/sqlgen"
)

// Options names the row the generated statement updates. ExistingHash, when
// set, is a stored hash to check against the password before a new one is made.
type Options struct {
	Table        string
	Column       string
	KeyColumn    string
	KeyValue     string
	ExistingHash string
}

// Generator hashes a password, checks the hash and renders the UPDATE statement
type Generator struct {
	hasher  passhash.Hasher
	opts    Options
	metrics *metrics.Metrics
}

// Result holds everything printed for one run
type Result struct {
	RunID     string
	Existing  *ExistingCheck
	Hash      string
	Verified  bool
	Statement string
	Duration  time.Duration
}

// ExistingCheck is the outcome of checking a stored hash against the password.
// Cost is zero when the hash is malformed.
type ExistingCheck struct {
	Hash      string
	Matched   bool
	Cost      int
	Malformed bool
}

// New creates a generator. m may be nil.
func New(h passhash.Hasher, opts Options, m *metrics.Metrics) *Generator {
	return &Generator{
		hasher:  h,
		opts:    opts,
		metrics: m,
	}
}

// Run hashes password, verifies it against the fresh hash and formats the
// statement. A failed verification is reported in the result, not as an error.
func (g *Generator) Run(ctx context.Context, password []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.With().Str("run_id", runID).Logger()

	var existing *ExistingCheck
	if g.opts.ExistingHash != "" {
		existing = g.checkExisting(log, password)
	}

	start := time.Now()
	hash, err := g.hasher.Hash(password)
	elapsed := time.Since(start)
	if err != nil {
		if g.metrics != nil {
			g.metrics.RecordHashError()
		}
		return nil, fmt.Errorf("failed to generate hash: %w", err)
	}
	if g.metrics != nil {
		g.metrics.RecordHash(elapsed.Seconds())
	}

	log.Debug().
		Dur("duration", elapsed).
		Msg("Generated bcrypt hash")

	verified := g.hasher.Verify(hash, password)
	if g.metrics != nil {
		g.metrics.RecordVerification(verified)
	}
	if !verified {
		log.Warn().Msg("Freshly generated hash failed verification")
	}

	update := sqlgen.Update{
		Table:     g.opts.Table,
		Column:    g.opts.Column,
		KeyColumn: g.opts.KeyColumn,
		KeyValue:  g.opts.KeyValue,
		Hash:      hash,
	}
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	if g.metrics != nil {
		g.metrics.RecordStatement()
	}

	log.Info().
		Str("table", update.Table).
		Str(update.KeyColumn, update.KeyValue).
		Bool("verified", verified).
		Msg("Rendered password update statement")

	return &Result{
		RunID:     runID,
		Existing:  existing,
		Hash:      hash,
		Verified:  verified,
		Statement: update.String(),
		Duration:  elapsed,
	}, nil
}

func (g *Generator) checkExisting(log zerolog.Logger, password []byte) *ExistingCheck {
	check := &ExistingCheck{Hash: g.opts.ExistingHash}

	cost, err := passhash.Cost(check.Hash)
	if err != nil {
		check.Malformed = true
		log.Warn().Err(err).Msg("Existing hash is malformed")
	} else {
		check.Cost = cost
		check.Matched = g.hasher.Verify(check.Hash, password)
	}

	if g.metrics != nil {
		g.metrics.RecordExistingCheck(check.Matched, check.Malformed)
	}

	log.Info().
		Bool("matched", check.Matched).
		Int("cost", check.Cost).
		Msg("Checked existing hash")

	return check
}

// Print writes the hash, the verification outcome and the statement, in that
// order. A checked existing hash is reported in a block before them.
func (r *Result) Print(w io.Writer) error {
	if r.Existing != nil {
		if err := r.Existing.print(w); err != nil {
			return err
		}
	}

	status := "✅ Password verification succeeded"
	if !r.Verified {
		status = "❌ Password verification failed"
	}

	_, err := fmt.Fprintf(w, "bcrypt hash:\n%s\n\n%s\n\nSQL update statement:\n%s\n", r.Hash, status, r.Statement)
	return err
}

func (c *ExistingCheck) print(w io.Writer) error {
	var status string
	switch {
	case c.Malformed:
		status = "❌ Existing hash is not a valid bcrypt hash"
	case c.Matched:
		status = fmt.Sprintf("✅ Existing hash matches the password (cost %d)", c.Cost)
	default:
		status = fmt.Sprintf("❌ Existing hash does not match the password (cost %d)", c.Cost)
	}

	_, err := fmt.Fprintf(w, "existing hash:\n%s\n%s\n\n", c.Hash, status)
	return err
}
