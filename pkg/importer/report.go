package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// Phase names in run order.
const (
	PhaseValidate    = "validate"
	PhaseBackup      = "backup"
	PhaseClear       = "clear"
	PhaseCatalogs    = "import catalogs"
	PhaseHierarchies = "import hierarchies"
	PhasePeople      = "import people"
	PhaseJobs        = "import jobs"
	PhaseAssignments = "import assignments"
	PhaseVerify      = "verify"
)

// Phase outcome tags.
const (
	PhaseOK      = "ok"
	PhaseFailed  = "failed"
	PhaseSkipped = "skipped"
)

// PhaseResult records one phase's outcome and wall time.
type PhaseResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Elapsed string `json:"elapsed"`
	Error   string `json:"error,omitempty"`
}

// ComponentCounts is the imported/skipped pair reported per component.
type ComponentCounts struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// TaxonomyCounts extends ComponentCounts with the orphan diagnostic for
// the hierarchical catalogs. Skipped counts classifications with no
// matching term row; orphans are imported, never dropped.
type TaxonomyCounts struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Orphans  int `json:"orphans"`
}

// EdgeCounts reports assignment resolution outcomes. Unresolved counts
// association rows whose subject matched neither a person nor a profile
// record, or whose catalog endpoint never imported. ViaProfile counts
// resolutions that went through the profile owner chain.
type EdgeCounts struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Unresolved int `json:"unresolved"`
	ViaProfile int `json:"via_profile"`
}

// VerifyResult is the outcome of the post-import verification phase.
type VerifyResult struct {
	SampleSize int      `json:"sample_size"`
	Problems   []string `json:"problems,omitempty"`
	Passed     bool     `json:"passed"`
}

// RunReport is the structured summary of one pipeline run. It is printed
// as an aligned text table or emitted as JSON, and its counters are the
// destination for every row-level diagnostic: malformed rows, orphans and
// unresolved edges count here instead of failing the run.
type RunReport struct {
	DumpPath    string    `json:"dump_path"`
	TablePrefix string    `json:"table_prefix"`
	DryRun      bool      `json:"dry_run"`
	StartedAt   time.Time `json:"started_at"`
	Elapsed     string    `json:"elapsed"`

	Phases []PhaseResult `json:"phases"`

	Skills              TaxonomyCounts  `json:"skills"`
	Brands              TaxonomyCounts  `json:"brands"`
	Languages           ComponentCounts `json:"languages"`
	People              ComponentCounts `json:"people"`
	JobPostings         ComponentCounts `json:"job_postings"`
	ScheduleEntries     ComponentCounts `json:"schedule_entries"`
	SkillAssignments    EdgeCounts      `json:"skill_assignments"`
	LanguageAssignments EdgeCounts      `json:"language_assignments"`

	// SourceRowsSkipped totals rows dropped during dump decoding across
	// all tables (tokenizer failures and column-count mismatches).
	SourceRowsSkipped int `json:"source_rows_skipped"`

	Verification *VerifyResult `json:"verification,omitempty"`
}

// NewRunReport creates a report for one run.
func NewRunReport(dumpPath, tablePrefix string, dryRun bool) *RunReport {
	return &RunReport{
		DumpPath:    dumpPath,
		TablePrefix: tablePrefix,
		DryRun:      dryRun,
		StartedAt:   time.Now(),
	}
}

// Failed reports whether any phase failed.
func (r *RunReport) Failed() bool {
	for _, p := range r.Phases {
		if p.Status == PhaseFailed {
			return true
		}
	}
	return false
}

// JSON renders the report as indented JSON.
func (r *RunReport) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run report: %w", err)
	}
	return b, nil
}

// WriteText renders the aligned text summary.
func (r *RunReport) WriteText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "dump\t%s\n", r.DumpPath)
	fmt.Fprintf(w, "prefix\t%s\n", r.TablePrefix)
	if r.DryRun {
		fmt.Fprintf(w, "mode\tdry run (nothing written)\n")
	}
	fmt.Fprintf(w, "elapsed\t%s\n", r.Elapsed)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PHASE\tSTATUS\tELAPSED")
	for _, p := range r.Phases {
		line := p.Status
		if p.Error != "" {
			line += ": " + p.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, line, p.Elapsed)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "COMPONENT\tIMPORTED\tSKIPPED\tDETAIL")
	fmt.Fprintf(w, "skills\t%d\t%d\t%s\n", r.Skills.Imported, r.Skills.Skipped, orphanDetail(r.Skills.Orphans))
	fmt.Fprintf(w, "brands\t%d\t%d\t%s\n", r.Brands.Imported, r.Brands.Skipped, orphanDetail(r.Brands.Orphans))
	fmt.Fprintf(w, "languages\t%d\t%d\t\n", r.Languages.Imported, r.Languages.Skipped)
	fmt.Fprintf(w, "people\t%d\t%d\t\n", r.People.Imported, r.People.Skipped)
	fmt.Fprintf(w, "job postings\t%d\t%d\t\n", r.JobPostings.Imported, r.JobPostings.Skipped)
	fmt.Fprintf(w, "schedule entries\t%d\t%d\t\n", r.ScheduleEntries.Imported, r.ScheduleEntries.Skipped)
	fmt.Fprintf(w, "skill assignments\t%d\t%d\t%s\n", r.SkillAssignments.Imported, r.SkillAssignments.Unresolved, edgeDetail(r.SkillAssignments))
	fmt.Fprintf(w, "language assignments\t%d\t%d\t%s\n", r.LanguageAssignments.Imported, r.LanguageAssignments.Unresolved, edgeDetail(r.LanguageAssignments))
	if r.SourceRowsSkipped > 0 {
		fmt.Fprintf(w, "source rows dropped\t\t%d\t\n", r.SourceRowsSkipped)
	}

	if r.Verification != nil {
		fmt.Fprintln(w)
		if r.Verification.Passed {
			fmt.Fprintf(w, "verification\tpassed\t(%d sampled per type)\n", r.Verification.SampleSize)
		} else {
			fmt.Fprintf(w, "verification\tFAILED\t%d problem(s)\n", len(r.Verification.Problems))
			for _, p := range r.Verification.Problems {
				fmt.Fprintf(w, "\t-\t%s\n", p)
			}
		}
	}

	return w.Flush()
}

func orphanDetail(orphans int) string {
	if orphans == 0 {
		return ""
	}
	return strconv.Itoa(orphans) + " orphan(s) imported as roots"
}

func edgeDetail(e EdgeCounts) string {
	detail := ""
	if e.Duplicates > 0 {
		detail = strconv.Itoa(e.Duplicates) + " duplicate(s)"
	}
	if e.ViaProfile > 0 {
		if detail != "" {
			detail += ", "
		}
		detail += strconv.Itoa(e.ViaProfile) + " via profile"
	}
	return detail
}
