package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/repositories"
)

// Snapshot file names, one JSONL file per owned table.
const (
	snapshotSkills              = "skills.jsonl"
	snapshotBrands              = "brands.jsonl"
	snapshotLanguages           = "languages.jsonl"
	snapshotPeople              = "people.jsonl"
	snapshotJobPostings         = "job_postings.jsonl"
	snapshotScheduleEntries     = "schedule_entries.jsonl"
	snapshotSkillAssignments    = "skill_assignments.jsonl"
	snapshotLanguageAssignments = "language_assignments.jsonl"
)

// snapshotFiles lists every file a complete snapshot holds. A snapshot
// missing any of them is not restorable.
var snapshotFiles = []string{
	snapshotSkills,
	snapshotBrands,
	snapshotLanguages,
	snapshotPeople,
	snapshotJobPostings,
	snapshotScheduleEntries,
	snapshotSkillAssignments,
	snapshotLanguageAssignments,
}

// WriteSnapshot dumps every table the import owns into a timestamped
// directory under backupDir, one JSON document per line. List order is
// preserved, which keeps parents ahead of children so a restore can replay
// the files top to bottom. Returns the directory written.
func WriteSnapshot(ctx context.Context, q database.Querier, backupDir string, logger *zap.Logger) (string, error) {
	dir := filepath.Join(backupDir, time.Now().UTC().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	skills := repositories.NewSkillRepository(q)
	brands := repositories.NewBrandRepository(q)
	languages := repositories.NewLanguageRepository(q)
	people := repositories.NewPersonRepository(q)
	jobs := repositories.NewJobPostingRepository(q)
	assignments := repositories.NewAssignmentRepository(q)

	total := 0
	for _, dump := range []struct {
		name  string
		write func() (int, error)
	}{
		{snapshotSkills, func() (int, error) { return dumpTable(ctx, dir, snapshotSkills, skills.List) }},
		{snapshotBrands, func() (int, error) { return dumpTable(ctx, dir, snapshotBrands, brands.List) }},
		{snapshotLanguages, func() (int, error) { return dumpTable(ctx, dir, snapshotLanguages, languages.List) }},
		{snapshotPeople, func() (int, error) { return dumpTable(ctx, dir, snapshotPeople, people.List) }},
		{snapshotJobPostings, func() (int, error) { return dumpTable(ctx, dir, snapshotJobPostings, jobs.List) }},
		{snapshotScheduleEntries, func() (int, error) {
			return dumpTable(ctx, dir, snapshotScheduleEntries, jobs.ListScheduleEntries)
		}},
		{snapshotSkillAssignments, func() (int, error) {
			return dumpTable(ctx, dir, snapshotSkillAssignments, assignments.ListSkills)
		}},
		{snapshotLanguageAssignments, func() (int, error) {
			return dumpTable(ctx, dir, snapshotLanguageAssignments, assignments.ListLanguages)
		}},
	} {
		n, err := dump.write()
		if err != nil {
			return "", err
		}
		logger.Debug("wrote snapshot file",
			zap.String("file", dump.name),
			zap.Int("rows", n))
		total += n
	}

	logger.Info("snapshot written",
		zap.String("dir", dir),
		zap.Int("rows", total))
	return dir, nil
}

// dumpTable lists one table and writes it as a JSONL file.
func dumpTable[T any](ctx context.Context, dir, name string, list func(context.Context) ([]*T, error)) (int, error) {
	rows, err := list(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list rows for %s: %w", name, err)
	}
	return writeJSONL(dir, name, rows)
}

// writeJSONL writes rows to dir/name, one JSON document per line.
func writeJSONL[T any](dir, name string, rows []*T) (int, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", name, err)
	}

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			f.Close()
			return 0, fmt.Errorf("failed to encode %s row: %w", name, err)
		}
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", name, err)
	}
	return len(rows), nil
}
