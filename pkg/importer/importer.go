package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/repositories"
)

// Options configures one pipeline run.
type Options struct {
	// DumpPath is the source export file.
	DumpPath string

	// TablePrefix is the source site's table prefix, trailing underscore
	// included.
	TablePrefix string

	// LayoutPath optionally overrides the embedded source table layouts.
	LayoutPath string

	// BackupDir is where the pre-import snapshot is written.
	BackupDir string

	// SampleSize is how many rows per entity type the verify phase
	// round-trips against the store.
	SampleSize int

	// DryRun parses, validates and plans but never touches the store.
	DryRun bool
}

// Importer runs the reconstruction pipeline against one store. The store
// handle is injected; the pipeline holds no global state, but it assumes
// exclusive ownership of the tables it writes for the duration of a run.
type Importer struct {
	db     *database.DB
	logger *zap.Logger
	opts   Options
}

// New creates an Importer for one run.
func New(db *database.DB, logger *zap.Logger, opts Options) *Importer {
	return &Importer{db: db, logger: logger, opts: opts}
}

// Run executes the pipeline once: validate, backup, clear, the four write
// phases in dependency order, then verify. The returned report is complete
// even when err is non-nil; phases after the failed one are absent. Each
// write phase commits its own transaction, so a failure leaves the store
// exactly as the last successful phase committed it.
func (imp *Importer) Run(ctx context.Context) (*RunReport, error) {
	report := NewRunReport(imp.opts.DumpPath, imp.opts.TablePrefix, imp.opts.DryRun)
	start := time.Now()
	err := imp.run(ctx, report)
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return report, err
}

func (imp *Importer) run(ctx context.Context, report *RunReport) error {
	var src *source
	if err := imp.phase(report, PhaseValidate, func() error {
		loaded, err := loadSource(imp.opts.DumpPath, imp.opts.TablePrefix, imp.opts.LayoutPath, imp.logger)
		if err != nil {
			return err
		}
		if err := validateSource(loaded); err != nil {
			return err
		}
		src = loaded
		return nil
	}); err != nil {
		return err
	}

	plan := buildPlan(src, report, imp.logger)
	report.SourceRowsSkipped = src.skippedRows

	if imp.opts.DryRun {
		for _, name := range []string{
			PhaseBackup, PhaseClear, PhaseCatalogs, PhaseHierarchies,
			PhasePeople, PhaseJobs, PhaseAssignments, PhaseVerify,
		} {
			imp.skipPhase(report, name)
		}
		imp.logger.Info("Dry run complete, store untouched")
		return nil
	}

	if err := imp.phase(report, PhaseBackup, func() error {
		_, err := WriteSnapshot(ctx, imp.db, imp.opts.BackupDir, imp.logger)
		return err
	}); err != nil {
		return err
	}

	if err := imp.phase(report, PhaseClear, func() error {
		return imp.db.WithTx(ctx, func(tx pgx.Tx) error {
			return clearStore(ctx, tx)
		})
	}); err != nil {
		return err
	}

	for _, write := range []struct {
		name string
		fn   func(context.Context, pgx.Tx, *importPlan) error
	}{
		{PhaseCatalogs, writeCatalogs},
		{PhaseHierarchies, writeHierarchies},
		{PhasePeople, writePeople},
		{PhaseJobs, writeJobs},
		{PhaseAssignments, writeAssignments},
	} {
		fn := write.fn
		if err := imp.phase(report, write.name, func() error {
			return imp.db.WithTx(ctx, func(tx pgx.Tx) error {
				return fn(ctx, tx, plan)
			})
		}); err != nil {
			return err
		}
	}

	return imp.phase(report, PhaseVerify, func() error {
		res, err := verifyPlan(ctx, imp.db, plan, imp.opts.SampleSize)
		if err != nil {
			return err
		}
		report.Verification = res
		if !res.Passed {
			return fmt.Errorf("%w: %d problem(s)", apperrors.ErrVerifyFailed, len(res.Problems))
		}
		return nil
	})
}

// Verify re-parses the dump and checks the store against it without
// writing anything. It backs the standalone verify command.
func (imp *Importer) Verify(ctx context.Context) (*VerifyResult, error) {
	src, err := loadSource(imp.opts.DumpPath, imp.opts.TablePrefix, imp.opts.LayoutPath, imp.logger)
	if err != nil {
		return nil, err
	}

	// Counters land in a throwaway report; only the plan matters here.
	plan := buildPlan(src, NewRunReport(imp.opts.DumpPath, imp.opts.TablePrefix, true), imp.logger)

	res, err := verifyPlan(ctx, imp.db, plan, imp.opts.SampleSize)
	if err != nil {
		return nil, err
	}
	if !res.Passed {
		return res, fmt.Errorf("%w: %d problem(s)", apperrors.ErrVerifyFailed, len(res.Problems))
	}
	return res, nil
}

// phase runs one pipeline phase, recording its outcome and wall time on
// the report. The returned error is the phase error wrapped with the
// phase name, so the run halts at the first failure.
func (imp *Importer) phase(report *RunReport, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Round(time.Millisecond).String()

	if err != nil {
		report.Phases = append(report.Phases, PhaseResult{
			Name:    name,
			Status:  PhaseFailed,
			Elapsed: elapsed,
			Error:   err.Error(),
		})
		imp.logger.Error("Phase failed", zap.String("phase", name), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}

	report.Phases = append(report.Phases, PhaseResult{
		Name:    name,
		Status:  PhaseOK,
		Elapsed: elapsed,
	})
	imp.logger.Info("Phase complete", zap.String("phase", name), zap.String("elapsed", elapsed))
	return nil
}

func (imp *Importer) skipPhase(report *RunReport, name string) {
	report.Phases = append(report.Phases, PhaseResult{Name: name, Status: PhaseSkipped, Elapsed: "0s"})
}

// clearStore empties every owned table, children before parents.
func clearStore(ctx context.Context, tx pgx.Tx) error {
	if err := repositories.NewAssignmentRepository(tx).Clear(ctx); err != nil {
		return err
	}
	if err := repositories.NewJobPostingRepository(tx).Clear(ctx); err != nil {
		return err
	}
	if err := repositories.NewPersonRepository(tx).Clear(ctx); err != nil {
		return err
	}
	if err := repositories.NewLanguageRepository(tx).Clear(ctx); err != nil {
		return err
	}
	if err := repositories.NewBrandRepository(tx).Clear(ctx); err != nil {
		return err
	}
	return repositories.NewSkillRepository(tx).Clear(ctx)
}

// writeCatalogs inserts the leaf catalog rows: skill and brand roots plus
// every language. Children wait for the next phase so their parent keys
// resolve.
func writeCatalogs(ctx context.Context, tx pgx.Tx, plan *importPlan) error {
	skills := repositories.NewSkillRepository(tx)
	for _, s := range plan.skillRoots {
		if err := skills.Create(ctx, s); err != nil {
			return err
		}
	}

	brands := repositories.NewBrandRepository(tx)
	for _, b := range plan.brandRoots {
		if err := brands.Create(ctx, b); err != nil {
			return err
		}
	}

	languages := repositories.NewLanguageRepository(tx)
	for _, l := range plan.languages {
		if err := languages.Create(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// writeHierarchies inserts the child rows under the roots the previous
// phase committed.
func writeHierarchies(ctx context.Context, tx pgx.Tx, plan *importPlan) error {
	skills := repositories.NewSkillRepository(tx)
	for _, s := range plan.skillChildren {
		if err := skills.Create(ctx, s); err != nil {
			return err
		}
	}

	brands := repositories.NewBrandRepository(tx)
	for _, b := range plan.brandChildren {
		if err := brands.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func writePeople(ctx context.Context, tx pgx.Tx, plan *importPlan) error {
	people := repositories.NewPersonRepository(tx)
	for _, p := range plan.people {
		if err := people.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func writeJobs(ctx context.Context, tx pgx.Tx, plan *importPlan) error {
	jobs := repositories.NewJobPostingRepository(tx)
	for _, j := range plan.jobs {
		if err := jobs.Create(ctx, j); err != nil {
			return err
		}
		for i := range j.Schedule {
			if err := jobs.CreateScheduleEntry(ctx, &j.Schedule[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeAssignments inserts the resolved edges. The plan already deduped
// them; the repository's conflict handling only matters if someone loads
// a plan over a non-empty store, which a normal run never does.
func writeAssignments(ctx context.Context, tx pgx.Tx, plan *importPlan) error {
	assignments := repositories.NewAssignmentRepository(tx)
	for _, e := range plan.skillEdges {
		if _, err := assignments.CreateSkill(ctx, e); err != nil {
			return err
		}
	}
	for _, e := range plan.languageEdges {
		if _, err := assignments.CreateLanguage(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
