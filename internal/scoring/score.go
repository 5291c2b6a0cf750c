package scoring

import (
	"sort"

	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// Component weights. Violations and evictions dominate because they are the
// strongest displacement signals; resolution speed is a tiebreaker.
const (
	weightViolations = 0.30
	weightComplaints = 0.20
	weightEvictions  = 0.25
	weightOwnership  = 0.15
	weightResolution = 0.10
)

// ViolationScore scores housing-code violations per unit, weighted by class
// severity: class C (immediately hazardous) counts 10x, class B 5x, class A
// 1x. Capped at 100.
func ViolationScore(classC, classB, classA, units int) float64 {
	if units < 1 {
		units = 1
	}
	weighted := float64(10*classC+5*classB+classA) / float64(units) * 10
	return capScore(weighted)
}

// ComplaintsScore scores 311 housing complaints per unit. Capped at 100.
func ComplaintsScore(complaints, units int) float64 {
	if units < 1 {
		units = 1
	}
	return capScore(float64(complaints) / float64(units) * 20)
}

// EvictionScore scores executed evictions per unit. A single eviction in a
// small building is a strong signal, hence the steep multiplier. Capped at
// 100.
func EvictionScore(evictions, units int) float64 {
	if units < 1 {
		units = 1
	}
	return capScore(float64(evictions) / float64(units) * 50)
}

// OwnershipScore scores ownership structure: LLC ownership obscures
// accountability (+30) and large portfolios correlate with worse outcomes
// (up to +70). Capped at 100.
func OwnershipScore(isLLC bool, portfolioBuildings int) float64 {
	score := 0.0
	if isLLC {
		score += 30
	}
	switch {
	case portfolioBuildings >= 100:
		score += 70
	case portfolioBuildings >= 50:
		score += 50
	case portfolioBuildings >= 20:
		score += 30
	case portfolioBuildings >= 10:
		score += 15
	}
	return capScore(score)
}

// ResolutionScore scores how slowly complaints get resolved. Thirty days is
// the grace window; every ten days past it adds 20 points. A building with no
// resolved complaints scores zero.
func ResolutionScore(avgDays *float64) float64 {
	if avgDays == nil || *avgDays <= 30 {
		return 0
	}
	return capScore((*avgDays - 30) / 10 * 20)
}

// OverallScore combines the five component scores. Capped at 100.
func OverallScore(violation, complaints, eviction, ownership, resolution float64) float64 {
	overall := violation*weightViolations +
		complaints*weightComplaints +
		eviction*weightEvictions +
		ownership*weightOwnership +
		resolution*weightResolution
	return capScore(overall)
}

// Grade maps a score to a letter grade on half-open 20-point bands: a
// boundary score takes the worse grade, so 20.0 is a B and 80.0 is an F.
func Grade(score float64) string {
	switch {
	case score < 20:
		return "A"
	case score < 40:
		return "B"
	case score < 60:
		return "C"
	case score < 80:
		return "D"
	default:
		return "F"
	}
}

func capScore(s float64) float64 {
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}

// ScoreBuilding computes the full score row for one building's facts.
// Percentiles are filled in later, once every building is scored.
func ScoreBuilding(f repository.BuildingFacts) models.BuildingScore {
	violation := ViolationScore(f.ClassCViolations, f.ClassBViolations, f.ClassAViolations, f.Units)
	complaints := ComplaintsScore(f.TotalComplaints, f.Units)
	eviction := EvictionScore(f.TotalEvictions, f.Units)
	ownership := OwnershipScore(f.OwnerIsLLC, f.PortfolioBuildings)
	resolution := ResolutionScore(f.AvgResolutionDays)
	overall := OverallScore(violation, complaints, eviction, ownership, resolution)

	units := f.Units
	if units < 1 {
		units = 1
	}

	return models.BuildingScore{
		BBL:               f.BBL,
		ViolationScore:    violation,
		ComplaintsScore:   complaints,
		EvictionScore:     eviction,
		OwnershipScore:    ownership,
		ResolutionScore:   resolution,
		OverallScore:      overall,
		Grade:             Grade(overall),
		TotalViolations:   f.TotalViolations,
		ClassCViolations:  f.ClassCViolations,
		ClassBViolations:  f.ClassBViolations,
		ClassAViolations:  f.ClassAViolations,
		OpenViolations:    f.OpenViolations,
		TotalComplaints:   f.TotalComplaints,
		TotalEvictions:    f.TotalEvictions,
		AvgResolutionDays: f.AvgResolutionDays,
		ViolationsPerUnit: float64(f.TotalViolations) / float64(units),
		ComplaintsPerUnit: float64(f.TotalComplaints) / float64(units),
		EvictionsPerUnit:  float64(f.TotalEvictions) / float64(units),
	}
}

// ApplyPercentiles fills in citywide and per-borough percentile ranks:
// 100 x (buildings scoring at or below this one) / N, so tied scores share a
// percentile and a higher score always means a higher (worse) percentile.
// Borough percentiles are left nil for buildings with no known borough.
func ApplyPercentiles(scores []models.BuildingScore, boroughs map[string]*string) {
	city := make([]float64, 0, len(scores))
	byBorough := make(map[string][]float64)
	for i := range scores {
		city = append(city, scores[i].OverallScore)
		if b := boroughs[scores[i].BBL]; b != nil {
			byBorough[*b] = append(byBorough[*b], scores[i].OverallScore)
		}
	}

	sort.Float64s(city)
	for _, v := range byBorough {
		sort.Float64s(v)
	}

	for i := range scores {
		p := percentileOf(city, scores[i].OverallScore)
		scores[i].PercentileCity = &p

		if b := boroughs[scores[i].BBL]; b != nil {
			bp := percentileOf(byBorough[*b], scores[i].OverallScore)
			scores[i].PercentileBorough = &bp
		}
	}
}

// percentileOf returns 100 x (values <= target) / len(values) against a
// sorted slice.
func percentileOf(sorted []float64, target float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	// First index strictly greater than target == count of values <= target.
	n := sort.SearchFloat64s(sorted, target)
	for n < len(sorted) && sorted[n] == target {
		n++
	}
	return 100 * float64(n) / float64(len(sorted))
}

// PortfolioScore rolls building scores up to one portfolio score as the
// unweighted mean of the linked buildings' overall scores.
func PortfolioScore(buildings []repository.PortfolioBuildingScore) float64 {
	if len(buildings) == 0 {
		return 0
	}
	var sum float64
	for _, b := range buildings {
		sum += b.OverallScore
	}
	return capScore(sum / float64(len(buildings)))
}
