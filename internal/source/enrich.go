package source

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/papapumpkin/featuremap/internal/record"
)

// Enricher fills in optional fields a source did not supply.
type Enricher interface {
	Enrich(f *record.Feature, missing Fields)
}

// Stand-in values used until real ownership and bug data is wired in.
var (
	StubTeams = []string{
		"Frontend", "Backend", "Mobile", "Security", "Infrastructure",
		"Design", "API", "QA", "DevOps",
	}
	StubContributors = []string{
		"Sarah Chen", "Michael Johnson", "Amit Patel", "Jessica Kim",
		"Carlos Rodriguez", "Emma Thompson", "David Wilson", "Olga Petrov",
		"Marcus Lee", "Hannah Garcia", "James Moore", "Fatima Ali",
		"Ryan Taylor", "Sophia Martinez", "Noah Anderson", "Wei Zhang",
	}
	StubDependencies = []string{
		"API", "Authentication", "Database", "Frontend", "Notifications", "Payments",
	}
	stubComplexity = []string{record.Low, record.Medium, record.High}
)

// StubEnricher fills missing fields with seeded random values: bugs 0-4,
// time to release 10-39 days, up to two dependencies.
type StubEnricher struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStubEnricher returns a stub seeded with seed; zero seeds from the clock.
func NewStubEnricher(seed uint64) *StubEnricher {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &StubEnricher{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Enrich implements Enricher.
func (s *StubEnricher) Enrich(f *record.Feature, missing Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if missing.Has(FieldTeam) {
		f.Team = StubTeams[s.rng.IntN(len(StubTeams))]
	}
	if missing.Has(FieldContributor) {
		f.Contributor = StubContributors[s.rng.IntN(len(StubContributors))]
	}
	if missing.Has(FieldBugCount) {
		f.BugCount = s.rng.IntN(5)
	}
	if missing.Has(FieldComplexity) {
		f.Complexity = stubComplexity[s.rng.IntN(len(stubComplexity))]
	}
	if missing.Has(FieldTimeToRelease) {
		f.TimeToRelease = 10 + s.rng.IntN(30)
	}
	if missing.Has(FieldDependencies) {
		n := s.rng.IntN(3)
		var deps []string
		for i := 0; i < n; i++ {
			d := StubDependencies[s.rng.IntN(len(StubDependencies))]
			if !contains(deps, d) {
				deps = append(deps, d)
			}
		}
		f.Dependencies = deps
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
