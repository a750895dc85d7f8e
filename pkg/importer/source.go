package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/wpdump"
)

// Taxonomy names and record types the legacy site used.
const (
	taxonomySkills    = "skill-category"
	taxonomyBrands    = "brand-category"
	taxonomyLanguages = "spoken-language"

	postTypeJob     = "crew_job"
	postTypeProfile = "crew_profile"
)

// Attribute keys consumed from the metadata tables. The location and
// phone keys accumulated aliases over the site's lifetime; lookups check
// them in this priority order.
const (
	metaJobStatus = "_job_status"
	metaJobDates  = "_job_dates"
	metaBio       = "description"

	metaSessionTokens = "session_tokens"
)

var (
	rateKeys     = []string{"_day_rate", "_rate"}
	locationKeys = []string{"location", "crew_location", "city"}
	phoneKeys    = []string{"phone", "phone_number", "contact_phone"}
)

// source is everything extracted from one dump: decoded tables, the
// reconstructed taxonomy forests and the metadata indexes. It is built
// once per run and read by every phase.
type source struct {
	prefix string

	users    []wpdump.User
	userMeta wpdump.MetaIndex
	posts    []wpdump.Post
	postMeta wpdump.MetaIndex
	rels     []wpdump.TermRelationship

	classifications []wpdump.TermTaxonomy

	skills    wpdump.Forest
	brands    wpdump.Forest
	languages wpdump.Forest

	termStats wpdump.ReadStats
	userStats wpdump.ReadStats

	skippedRows int
}

// loadSource opens the dump and decodes every table the pipeline reads.
func loadSource(dumpPath, tablePrefix, layoutPath string, logger *zap.Logger) (*source, error) {
	dump, err := wpdump.Open(dumpPath, tablePrefix, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}

	layouts, err := wpdump.LoadLayouts(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load table layouts: %w", err)
	}

	reader := wpdump.NewReader(dump, layouts, logger)
	src := &source{prefix: tablePrefix}

	terms, termStats := reader.Terms()
	src.termStats = termStats

	var taxStats wpdump.ReadStats
	src.classifications, taxStats = reader.TermTaxonomies()

	var relStats wpdump.ReadStats
	src.rels, relStats = reader.TermRelationships()

	var postStats, postMetaStats, userStats, userMetaStats wpdump.ReadStats
	src.posts, postStats = reader.Posts()

	var postMetas []wpdump.Meta
	postMetas, postMetaStats = reader.PostMeta()
	src.postMeta = wpdump.BuildMetaIndex(postMetas)

	src.users, userStats = reader.Users()
	src.userStats = userStats

	var userMetas []wpdump.Meta
	userMetas, userMetaStats = reader.UserMeta()
	src.userMeta = wpdump.BuildMetaIndex(userMetas)

	src.skills = wpdump.BuildForest(taxonomySkills, src.classifications, terms)
	src.brands = wpdump.BuildForest(taxonomyBrands, src.classifications, terms)
	src.languages = wpdump.BuildForest(taxonomyLanguages, src.classifications, terms)

	for _, stats := range []wpdump.ReadStats{
		termStats, taxStats, relStats, postStats, postMetaStats, userStats, userMetaStats,
	} {
		src.skippedRows += stats.Skipped
	}

	logger.Info("Loaded export",
		zap.String("dump", dumpPath),
		zap.Int("users", len(src.users)),
		zap.Int("posts", len(src.posts)),
		zap.Int("classifications", len(src.classifications)),
		zap.Int("associations", len(src.rels)),
		zap.Int("rows_skipped", src.skippedRows),
	)

	return src, nil
}
