package analysis

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

// descriptorFixture builds a minimal descriptor for aggregation tests.
func descriptorFixture(filename string, category Category, impact Impact, additions, deletions int, breaking bool) ChangeDescriptor {
	return ChangeDescriptor{
		Filename:   filename,
		ChangeType: StatusModified,
		Category:   category,
		Additions:  additions,
		Deletions:  deletions,
		IsBreaking: breaking,
		Impact:     impact,
		AffectsAPI: category == CategoryAPI,
		AffectsUI:  category == CategoryFrontend,
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, DefaultThresholds())

	if s.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", s.TotalFiles)
	}
	if len(s.ByCategory) != 0 || len(s.ByImpact) != 0 {
		t.Errorf("empty input produced non-empty counts: %v / %v", s.ByCategory, s.ByImpact)
	}
	if len(s.SignificantChanges) != 0 || len(s.BreakingChanges) != 0 {
		t.Error("empty input produced non-empty file lists")
	}
	if s.StrategyHint != HintStandardUpdate {
		t.Errorf("StrategyHint = %q, want %q", s.StrategyHint, HintStandardUpdate)
	}
	if s.Narrative != "No changes detected." {
		t.Errorf("Narrative = %q", s.Narrative)
	}
}

func TestAggregateCounts(t *testing.T) {
	descriptors := []ChangeDescriptor{
		descriptorFixture("api/users.go", CategoryAPI, ImpactHigh, 30, 5, false),
		descriptorFixture("api/orders.go", CategoryAPI, ImpactHigh, 60, 20, true),
		descriptorFixture("config/app.json", CategoryConfiguration, ImpactMedium, 3, 1, false),
		descriptorFixture("src/util.py", CategoryOther, ImpactLow, 2, 0, false),
	}

	s := Aggregate(descriptors, DefaultThresholds())

	if s.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", s.TotalFiles)
	}
	if s.ByCategory[CategoryAPI] != 2 || s.ByCategory[CategoryConfiguration] != 1 || s.ByCategory[CategoryOther] != 1 {
		t.Errorf("ByCategory = %v", s.ByCategory)
	}
	if s.ByImpact[ImpactHigh] != 2 || s.ByImpact[ImpactMedium] != 1 || s.ByImpact[ImpactLow] != 1 {
		t.Errorf("ByImpact = %v", s.ByImpact)
	}
	if want := []string{"api/orders.go"}; !reflect.DeepEqual(s.BreakingChanges, want) {
		t.Errorf("BreakingChanges = %v, want %v", s.BreakingChanges, want)
	}
	if want := []string{"api/users.go", "api/orders.go"}; !reflect.DeepEqual(s.APIChanges, want) {
		t.Errorf("APIChanges = %v, want %v", s.APIChanges, want)
	}
	if want := []string{"config/app.json"}; !reflect.DeepEqual(s.ConfigChanges, want) {
		t.Errorf("ConfigChanges = %v, want %v", s.ConfigChanges, want)
	}
	// Significant: additions > 20 or deletions > 10.
	if want := []string{"api/users.go", "api/orders.go"}; !reflect.DeepEqual(s.SignificantChanges, want) {
		t.Errorf("SignificantChanges = %v, want %v", s.SignificantChanges, want)
	}
}

func TestAggregateCountsOrderIndependent(t *testing.T) {
	descriptors := []ChangeDescriptor{
		descriptorFixture("api/users.go", CategoryAPI, ImpactHigh, 30, 5, false),
		descriptorFixture("config/app.json", CategoryConfiguration, ImpactMedium, 3, 1, false),
		descriptorFixture("web/nav.tsx", CategoryFrontend, ImpactLow, 8, 2, false),
		descriptorFixture("db/schema.sql", CategoryDatabase, ImpactHigh, 10, 40, true),
		descriptorFixture("src/util.py", CategoryOther, ImpactLow, 2, 0, false),
	}

	base := Aggregate(descriptors, DefaultThresholds())

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]ChangeDescriptor(nil), descriptors...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		s := Aggregate(shuffled, DefaultThresholds())
		if !reflect.DeepEqual(s.ByCategory, base.ByCategory) {
			t.Errorf("trial %d: ByCategory differs under reorder: %v vs %v", trial, s.ByCategory, base.ByCategory)
		}
		if !reflect.DeepEqual(s.ByImpact, base.ByImpact) {
			t.Errorf("trial %d: ByImpact differs under reorder: %v vs %v", trial, s.ByImpact, base.ByImpact)
		}
		if s.TotalFiles != base.TotalFiles {
			t.Errorf("trial %d: TotalFiles differs", trial)
		}
	}
}

func TestAggregateSignificantPreservesInputOrder(t *testing.T) {
	descriptors := []ChangeDescriptor{
		descriptorFixture("z_last.go", CategoryOther, ImpactLow, 25, 0, false),
		descriptorFixture("a_first.go", CategoryOther, ImpactLow, 30, 0, false),
		descriptorFixture("m_mid.go", CategoryOther, ImpactLow, 2, 15, false),
	}

	s := Aggregate(descriptors, DefaultThresholds())
	want := []string{"z_last.go", "a_first.go", "m_mid.go"}
	if !reflect.DeepEqual(s.SignificantChanges, want) {
		t.Errorf("SignificantChanges = %v, want input order %v", s.SignificantChanges, want)
	}
}

func TestAggregateStrategyHint(t *testing.T) {
	tests := []struct {
		name        string
		descriptors []ChangeDescriptor
		want        string
	}{
		{
			name: "api changes win",
			descriptors: []ChangeDescriptor{
				descriptorFixture("api/users.go", CategoryAPI, ImpactHigh, 5, 0, false),
			},
			want: HintMigrationAndAPIDoc,
		},
		{
			name: "breaking changes win",
			descriptors: []ChangeDescriptor{
				descriptorFixture("db/schema.sql", CategoryDatabase, ImpactHigh, 0, 40, true),
			},
			want: HintMigrationAndAPIDoc,
		},
		{
			name: "three high-impact files",
			descriptors: []ChangeDescriptor{
				descriptorFixture("a.go", CategoryBackend, ImpactHigh, 120, 0, false),
				descriptorFixture("b.go", CategoryBackend, ImpactHigh, 130, 0, false),
				descriptorFixture("c.go", CategoryBackend, ImpactHigh, 140, 0, false),
			},
			want: HintComprehensiveGuide,
		},
		{
			name: "quiet change set",
			descriptors: []ChangeDescriptor{
				descriptorFixture("src/util.py", CategoryOther, ImpactLow, 2, 0, false),
			},
			want: HintStandardUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Aggregate(tt.descriptors, DefaultThresholds())
			if s.StrategyHint != tt.want {
				t.Errorf("StrategyHint = %q, want %q", s.StrategyHint, tt.want)
			}
		})
	}
}

func TestAggregateNarrative(t *testing.T) {
	descriptors := []ChangeDescriptor{
		descriptorFixture("api/users.go", CategoryAPI, ImpactHigh, 30, 5, false),
		descriptorFixture("api/orders.go", CategoryAPI, ImpactHigh, 60, 20, true),
		descriptorFixture("config/app.json", CategoryConfiguration, ImpactMedium, 3, 1, false),
	}

	s := Aggregate(descriptors, DefaultThresholds())

	for _, want := range []string{"3 files changed", "2 high-impact", "1 breaking change"} {
		if !strings.Contains(s.Narrative, want) {
			t.Errorf("Narrative %q missing %q", s.Narrative, want)
		}
	}
	// api (2) must lead configuration (1).
	apiIdx := strings.Index(s.Narrative, "api")
	confIdx := strings.Index(s.Narrative, "configuration")
	if apiIdx < 0 || confIdx < 0 || apiIdx > confIdx {
		t.Errorf("Narrative %q: leading categories out of order", s.Narrative)
	}
}

func TestAggregateNarrativeLimitsCategories(t *testing.T) {
	descriptors := []ChangeDescriptor{
		descriptorFixture("api/a.go", CategoryAPI, ImpactHigh, 1, 0, false),
		descriptorFixture("config/b.json", CategoryConfiguration, ImpactMedium, 1, 0, false),
		descriptorFixture("web/c.tsx", CategoryFrontend, ImpactLow, 1, 0, false),
		descriptorFixture("srv/d.go", CategoryBackend, ImpactLow, 1, 0, false),
	}

	s := Aggregate(descriptors, DefaultThresholds())
	// Four categories present but only three may appear; backend (lowest
	// priority at equal counts) is the one left out.
	if strings.Contains(s.Narrative, "backend") {
		t.Errorf("Narrative %q should list at most three leading categories", s.Narrative)
	}
	for _, want := range []string{"api", "configuration", "frontend"} {
		if !strings.Contains(s.Narrative, want) {
			t.Errorf("Narrative %q missing category %q", s.Narrative, want)
		}
	}
}
