package scoring

import (
	"testing"

	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolationScore(t *testing.T) {
	// One class C violation in a one-unit building: 10/1*10 = 100.
	assert.Equal(t, 100.0, ViolationScore(1, 0, 0, 1))
	// Same violation diluted across 100 units: 10/100*10 = 1.
	assert.Equal(t, 1.0, ViolationScore(1, 0, 0, 100))
	// Class weights: 2C + 3B + 5A over 10 units = (20+15+5)/10*10 = 40.
	assert.Equal(t, 40.0, ViolationScore(2, 3, 5, 10))
	assert.Equal(t, 0.0, ViolationScore(0, 0, 0, 10))
	// Zero units divides by one, never by zero.
	assert.Equal(t, 100.0, ViolationScore(1, 0, 0, 0))
}

func TestComplaintsScore(t *testing.T) {
	assert.Equal(t, 20.0, ComplaintsScore(1, 1))
	assert.Equal(t, 2.0, ComplaintsScore(1, 10))
	assert.Equal(t, 100.0, ComplaintsScore(50, 1), "capped at 100")
}

func TestEvictionScore(t *testing.T) {
	assert.Equal(t, 50.0, EvictionScore(1, 1))
	assert.Equal(t, 100.0, EvictionScore(10, 1), "capped at 100")
	assert.Equal(t, 5.0, EvictionScore(1, 10))
}

func TestOwnershipScore(t *testing.T) {
	assert.Equal(t, 0.0, OwnershipScore(false, 1))
	assert.Equal(t, 30.0, OwnershipScore(true, 1))
	assert.Equal(t, 15.0, OwnershipScore(false, 10))
	assert.Equal(t, 30.0, OwnershipScore(false, 20))
	assert.Equal(t, 50.0, OwnershipScore(false, 50))
	assert.Equal(t, 70.0, OwnershipScore(false, 100))
	assert.Equal(t, 100.0, OwnershipScore(true, 100))
	assert.Equal(t, 45.0, OwnershipScore(true, 10))
}

func TestResolutionScore(t *testing.T) {
	days := func(d float64) *float64 { return &d }

	assert.Equal(t, 0.0, ResolutionScore(nil))
	assert.Equal(t, 0.0, ResolutionScore(days(30)), "thirty days is within grace")
	assert.Equal(t, 0.0, ResolutionScore(days(12)))
	assert.Equal(t, 20.0, ResolutionScore(days(40)))
	assert.Equal(t, 100.0, ResolutionScore(days(80)))
	assert.Equal(t, 100.0, ResolutionScore(days(500)), "capped at 100")
}

func TestGrade_HalfOpenBands(t *testing.T) {
	assert.Equal(t, "A", Grade(0))
	assert.Equal(t, "A", Grade(19.99))
	assert.Equal(t, "B", Grade(20.0), "boundary takes the worse grade")
	assert.Equal(t, "B", Grade(39.99))
	assert.Equal(t, "C", Grade(40.0))
	assert.Equal(t, "D", Grade(60.0))
	assert.Equal(t, "F", Grade(80.0))
	assert.Equal(t, "F", Grade(100))
}

func TestScoreBuilding_NoFacts(t *testing.T) {
	s := ScoreBuilding(repository.BuildingFacts{BBL: "1001500001", Units: 24})

	assert.Equal(t, 0.0, s.OverallScore)
	assert.Equal(t, "A", s.Grade)
	assert.Equal(t, 0.0, s.ViolationsPerUnit)
}

func TestScoreBuilding_WorstCase(t *testing.T) {
	avg := 90.0
	s := ScoreBuilding(repository.BuildingFacts{
		BBL:                "3012340056",
		Units:              1,
		TotalViolations:    12,
		ClassCViolations:   10,
		ClassBViolations:   1,
		ClassAViolations:   1,
		TotalComplaints:    40,
		TotalEvictions:     3,
		AvgResolutionDays:  &avg,
		OwnerIsLLC:         true,
		PortfolioBuildings: 150,
	})

	assert.Equal(t, 100.0, s.ViolationScore)
	assert.Equal(t, 100.0, s.ComplaintsScore)
	assert.Equal(t, 100.0, s.EvictionScore)
	assert.Equal(t, 100.0, s.OwnershipScore)
	assert.Equal(t, 100.0, s.ResolutionScore)
	assert.Equal(t, 100.0, s.OverallScore)
	assert.Equal(t, "F", s.Grade)
	assert.Equal(t, 12.0, s.ViolationsPerUnit)
}

func TestScoreBuilding_WeightedOverall(t *testing.T) {
	s := ScoreBuilding(repository.BuildingFacts{
		BBL:              "1000010001",
		Units:            10,
		ClassCViolations: 2, // violation: 20/10*10 = 20
		TotalComplaints:  5, // complaints: 5/10*20 = 10
		TotalEvictions:   1, // eviction: 1/10*50 = 5
	})

	// 20*.30 + 10*.20 + 5*.25 = 6 + 2 + 1.25 = 9.25
	assert.InDelta(t, 9.25, s.OverallScore, 1e-9)
	assert.Equal(t, "A", s.Grade)
}

func TestApplyPercentiles(t *testing.T) {
	bk := "Brooklyn"
	mn := "Manhattan"
	scores := []models.BuildingScore{
		{BBL: "a", OverallScore: 10},
		{BBL: "b", OverallScore: 20},
		{BBL: "c", OverallScore: 20},
		{BBL: "d", OverallScore: 90},
	}
	boroughs := map[string]*string{
		"a": &bk, "b": &bk, "c": &mn, "d": nil,
	}

	ApplyPercentiles(scores, boroughs)

	require.NotNil(t, scores[0].PercentileCity)
	assert.Equal(t, 25.0, *scores[0].PercentileCity)
	assert.Equal(t, 75.0, *scores[1].PercentileCity, "ties share the percentile")
	assert.Equal(t, 75.0, *scores[2].PercentileCity)
	assert.Equal(t, 100.0, *scores[3].PercentileCity)

	// Brooklyn has two buildings: scores 10 and 20.
	assert.Equal(t, 50.0, *scores[0].PercentileBorough)
	assert.Equal(t, 100.0, *scores[1].PercentileBorough)
	// Manhattan has one.
	assert.Equal(t, 100.0, *scores[2].PercentileBorough)
	// Unknown borough gets no borough percentile.
	assert.Nil(t, scores[3].PercentileBorough)
}

func TestApplyPercentiles_MonotoneInScore(t *testing.T) {
	scores := []models.BuildingScore{
		{BBL: "a", OverallScore: 5},
		{BBL: "b", OverallScore: 50},
		{BBL: "c", OverallScore: 95},
	}
	ApplyPercentiles(scores, map[string]*string{})

	assert.Less(t, *scores[0].PercentileCity, *scores[1].PercentileCity)
	assert.Less(t, *scores[1].PercentileCity, *scores[2].PercentileCity)
}

func TestPortfolioScore_MeanOfBuildings(t *testing.T) {
	buildings := []repository.PortfolioBuildingScore{
		{PortfolioID: 1, OverallScore: 100},
		{PortfolioID: 1, OverallScore: 0},
		{PortfolioID: 1, OverallScore: 50},
	}
	assert.InDelta(t, 50.0, PortfolioScore(buildings), 1e-9)
}

func TestPortfolioScore_SingleBuilding(t *testing.T) {
	buildings := []repository.PortfolioBuildingScore{
		{PortfolioID: 7, OverallScore: 62.5},
	}
	assert.InDelta(t, 62.5, PortfolioScore(buildings), 1e-9)
}

func TestPortfolioScore_Empty(t *testing.T) {
	assert.Equal(t, 0.0, PortfolioScore(nil))
}
