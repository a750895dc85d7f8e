package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/repositories"
)

// snapshot holds one fully parsed snapshot directory in memory. The source
// export fits in memory many times over, so restore loads everything before
// touching the database.
type snapshot struct {
	Skills              []*models.Skill
	Brands              []*models.Brand
	Languages           []*models.Language
	People              []*models.Person
	JobPostings         []*models.JobPosting
	ScheduleEntries     []*models.ScheduleEntry
	SkillAssignments    []*models.SkillAssignment
	LanguageAssignments []*models.LanguageAssignment
}

// RestoreCounts reports how many rows a snapshot reload wrote per table.
type RestoreCounts struct {
	Skills              int
	Brands              int
	Languages           int
	People              int
	JobPostings         int
	ScheduleEntries     int
	SkillAssignments    int
	LanguageAssignments int
}

// Total returns the number of rows written across all tables.
func (c RestoreCounts) Total() int {
	return c.Skills + c.Brands + c.Languages + c.People +
		c.JobPostings + c.ScheduleEntries + c.SkillAssignments + c.LanguageAssignments
}

// RestoreSnapshot replaces everything the import owns with the contents of
// one snapshot directory. The whole reload, deletes included, runs in a
// single transaction, so a failed restore leaves the store untouched.
func RestoreSnapshot(ctx context.Context, db *database.DB, dir string, logger *zap.Logger) (*RestoreCounts, error) {
	snap, err := readSnapshot(dir)
	if err != nil {
		return nil, err
	}

	counts := &RestoreCounts{
		Skills:              len(snap.Skills),
		Brands:              len(snap.Brands),
		Languages:           len(snap.Languages),
		People:              len(snap.People),
		JobPostings:         len(snap.JobPostings),
		ScheduleEntries:     len(snap.ScheduleEntries),
		SkillAssignments:    len(snap.SkillAssignments),
		LanguageAssignments: len(snap.LanguageAssignments),
	}

	err = db.WithTx(ctx, func(tx pgx.Tx) error {
		skills := repositories.NewSkillRepository(tx)
		brands := repositories.NewBrandRepository(tx)
		languages := repositories.NewLanguageRepository(tx)
		people := repositories.NewPersonRepository(tx)
		jobs := repositories.NewJobPostingRepository(tx)
		assignments := repositories.NewAssignmentRepository(tx)

		// Clear children before parents.
		if err := assignments.Clear(ctx); err != nil {
			return err
		}
		if err := jobs.Clear(ctx); err != nil {
			return err
		}
		if err := people.Clear(ctx); err != nil {
			return err
		}
		if err := languages.Clear(ctx); err != nil {
			return err
		}
		if err := brands.Clear(ctx); err != nil {
			return err
		}
		if err := skills.Clear(ctx); err != nil {
			return err
		}

		// Replay in file order. Snapshot files keep parents ahead of
		// children, so straight iteration satisfies the foreign keys.
		for _, s := range snap.Skills {
			if err := skills.Create(ctx, s); err != nil {
				return err
			}
		}
		for _, b := range snap.Brands {
			if err := brands.Create(ctx, b); err != nil {
				return err
			}
		}
		for _, l := range snap.Languages {
			if err := languages.Create(ctx, l); err != nil {
				return err
			}
		}
		for _, p := range snap.People {
			if err := people.Create(ctx, p); err != nil {
				return err
			}
		}
		for _, j := range snap.JobPostings {
			if err := jobs.Create(ctx, j); err != nil {
				return err
			}
		}
		for _, e := range snap.ScheduleEntries {
			if err := jobs.CreateScheduleEntry(ctx, e); err != nil {
				return err
			}
		}
		for _, a := range snap.SkillAssignments {
			if _, err := assignments.CreateSkill(ctx, a); err != nil {
				return err
			}
		}
		for _, a := range snap.LanguageAssignments {
			if _, err := assignments.CreateLanguage(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore snapshot from %s: %w", dir, err)
	}

	logger.Info("snapshot restored",
		zap.String("dir", dir),
		zap.Int("rows", counts.Total()))
	return counts, nil
}

// readSnapshot parses every snapshot file in dir. It refuses to proceed
// when any file is missing rather than silently restoring a partial state.
func readSnapshot(dir string) (*snapshot, error) {
	for _, name := range snapshotFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("snapshot at %s is missing %s: %w", dir, name, err)
		}
	}

	snap := &snapshot{}
	var err error
	if snap.Skills, err = readJSONL[models.Skill](dir, snapshotSkills); err != nil {
		return nil, err
	}
	if snap.Brands, err = readJSONL[models.Brand](dir, snapshotBrands); err != nil {
		return nil, err
	}
	if snap.Languages, err = readJSONL[models.Language](dir, snapshotLanguages); err != nil {
		return nil, err
	}
	if snap.People, err = readJSONL[models.Person](dir, snapshotPeople); err != nil {
		return nil, err
	}
	if snap.JobPostings, err = readJSONL[models.JobPosting](dir, snapshotJobPostings); err != nil {
		return nil, err
	}
	if snap.ScheduleEntries, err = readJSONL[models.ScheduleEntry](dir, snapshotScheduleEntries); err != nil {
		return nil, err
	}
	if snap.SkillAssignments, err = readJSONL[models.SkillAssignment](dir, snapshotSkillAssignments); err != nil {
		return nil, err
	}
	if snap.LanguageAssignments, err = readJSONL[models.LanguageAssignment](dir, snapshotLanguageAssignments); err != nil {
		return nil, err
	}
	return snap, nil
}

// readJSONL parses dir/name as one JSON document per line.
func readJSONL[T any](dir, name string) ([]*T, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	var rows []*T
	dec := json.NewDecoder(f)
	line := 0
	for {
		var row T
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid JSON in %s at line %d: %w", name, line+1, err)
		}
		line++
		rows = append(rows, &row)
	}
	return rows, nil
}
