package analysis

import (
	"sort"
	"strings"

	"github.com/opendata-mcp/pkg/catalog/models"
)

// ScoringConfig holds the additive relevance weights. Title matches are
// the strongest signal; resource-level matches the weakest.
type ScoringConfig struct {
	TitleWeight    int
	NotesWeight    int
	TagWeight      int
	OrgWeight      int
	ResourceWeight int
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		TitleWeight:    10,
		NotesWeight:    5,
		TagWeight:      3,
		OrgWeight:      2,
		ResourceWeight: 1,
	}
}

// Scorer ranks packages against a free-text query by case-insensitive
// substring containment. Deliberately simple and explainable, not a
// trained ranking model.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the relevance of one package. Each weight is added at
// most once per category; categories accumulate independently. The query
// must be non-empty; handlers validate that before calling.
func (s *Scorer) Score(pkg *models.Package, query string) int {
	q := strings.ToLower(query)
	score := 0

	if strings.Contains(strings.ToLower(pkg.Title), q) {
		score += s.cfg.TitleWeight
	}

	if strings.Contains(strings.ToLower(pkg.Notes), q) {
		score += s.cfg.NotesWeight
	}

	for _, tag := range pkg.Tags {
		if strings.Contains(strings.ToLower(tag.Name), q) {
			score += s.cfg.TagWeight
			break
		}
	}

	if pkg.Organization != nil && strings.Contains(strings.ToLower(pkg.Organization.Title), q) {
		score += s.cfg.OrgWeight
	}

	for _, res := range pkg.Resources {
		if strings.Contains(strings.ToLower(res.Name), q) ||
			strings.Contains(strings.ToLower(res.Format), q) {
			score += s.cfg.ResourceWeight
			break
		}
	}

	return score
}

// ScoredPackage pairs a package with its relevance score
type ScoredPackage struct {
	Package models.Package
	Score   int
}

// Rank scores every package and sorts descending. The sort is stable, so
// packages with equal scores keep the catalog's result order. That order
// is not guaranteed stable by the upstream service; a known limitation.
func (s *Scorer) Rank(pkgs []models.Package, query string) []ScoredPackage {
	scored := make([]ScoredPackage, 0, len(pkgs))
	for _, pkg := range pkgs {
		scored = append(scored, ScoredPackage{
			Package: pkg,
			Score:   s.Score(&pkg, query),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
