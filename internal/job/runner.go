package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sheetscript/internal/source"
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// Runner executes jobs.
type Runner struct {
	Logger   *slog.Logger
	Profiles map[string]Profile
	// OutputDir holds outputs of jobs without an explicit output path.
	OutputDir string
	// DateConstructor overrides the document dialect date constructor.
	DateConstructor string
	// Concurrency bounds the number of jobs run at once; values below one
	// run jobs sequentially.
	Concurrency int
	// DryRun generates scripts without writing them.
	DryRun bool
}

// Prepared is a job whose source has been read and resolved.
type Prepared struct {
	Job     Job
	Dialect *dialect.Dialect
	Table   *source.Table
	Request script.Request
}

// Outcome reports one finished job.
type Outcome struct {
	Job      string         `json:"job"`
	Dialect  string         `json:"dialect"`
	Kind     string         `json:"operation"`
	Output   string         `json:"output,omitempty"`
	Written  bool           `json:"written"`
	Result   *script.Result `json:"-"`
	Skipped  []script.Skip  `json:"skipped,omitempty"`
	Stats    Stats          `json:"stats"`
	Duration time.Duration  `json:"duration"`
}

// Stats summarizes a generation.
type Stats struct {
	Rows       int `json:"rows"`
	Statements int `json:"statements"`
	Skipped    int `json:"skipped"`
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Prepare loads the source of j and resolves it into a request.
func (r *Runner) Prepare(j Job) (*Prepared, error) {
	d, err := DialectFor(j.Dialect, r.DateConstructor)
	if err != nil {
		return nil, err
	}

	var types map[string]string
	if j.Profile != "" {
		p, ok := r.Profiles[j.Profile]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", j.Profile)
		}
		if types, err = p.Types(); err != nil {
			return nil, err
		}
	}

	tbl, err := j.Load()
	if err != nil {
		return nil, err
	}
	req, err := Resolve(j, tbl.Rows, types)
	if err != nil {
		return nil, err
	}
	return &Prepared{Job: j, Dialect: d, Table: tbl, Request: req}, nil
}

// RunOne prepares, generates and writes a single job.
func (r *Runner) RunOne(j Job) (*Outcome, error) {
	start := time.Now()
	log := r.logger().With("job", j.Name)

	p, err := r.Prepare(j)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", j.Name, err)
	}

	res, err := script.New(script.WithLogger(log)).Generate(p.Dialect, p.Request)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", j.Name, err)
	}

	out := &Outcome{
		Job:     j.Name,
		Dialect: p.Dialect.Name,
		Kind:    p.Request.Kind.String(),
		Output:  j.OutputPath(r.OutputDir, p.Dialect),
		Result:  res,
		Skipped: res.Skipped,
		Stats: Stats{
			Rows:       res.Rows,
			Statements: res.Statements,
			Skipped:    len(res.Skipped),
		},
	}
	if !r.DryRun {
		if err := WriteFile(out.Output, []byte(res.Script)); err != nil {
			return nil, fmt.Errorf("job %s: %w", j.Name, err)
		}
		out.Written = true
	}
	out.Duration = time.Since(start)

	log.Info("job finished",
		"statements", res.Statements,
		"skipped", len(res.Skipped),
		"output", out.Output,
		"written", out.Written,
		"duration", out.Duration,
	)
	return out, nil
}

// Run executes jobs concurrently. Outcomes are returned in job order. The
// first failure cancels jobs that have not started yet.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*Outcome, error) {
	workers := r.Concurrency
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]*Outcome, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, j := range jobs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			out, err := r.RunOne(j)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// WriteFile writes data to path through a temporary file in the same
// directory, so a failed run never leaves a partial script behind.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // scripts are meant to be shared
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
