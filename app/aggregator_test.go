package app

import (
	"testing"

	"alocdash/domain/allocation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(region, hub, school string, required, filled int) allocation.JoinedRow {
	return allocation.JoinedRow{
		RegionID: region, RegionName: region,
		HubID: hub, HubName: hub,
		SchoolID: school, SchoolName: school,
		Required: required, Filled: filled, Classes: 1,
	}
}

func TestAggregateWeightedRegion(t *testing.T) {
	rows := []allocation.JoinedRow{
		row("GRE-1", "A", "Escola A", 10, 7),
		row("GRE-1", "B", "Escola B", 5, 5),
	}

	report := NewAggregator().Aggregate(allocation.RoleDirector, rows, nil)

	schools := report.SchoolPercentages()
	assert.Equal(t, "70.0%", schools["Escola A"].String())
	assert.Equal(t, "100.0%", schools["Escola B"].String())

	hubs := report.HubPercentages()
	assert.Equal(t, "70.0%", hubs["A"].String())
	assert.Equal(t, "100.0%", hubs["B"].String())

	regions := report.RegionPercentages()
	assert.Equal(t, "80.0%", regions["GRE-1"].String(), "region is (7+5)/(10+5), not the mean of hub percentages")
	assert.Equal(t, allocation.Counts{Required: 15, Filled: 12}, report.Totals)
}

func TestAggregateZeroRequiredSchool(t *testing.T) {
	rows := []allocation.JoinedRow{
		row("GRE-1", "A", "Escola A", 4, 2),
		row("GRE-1", "A", "Escola Sem Quota", 0, 0),
	}

	report := NewAggregator().Aggregate(allocation.RoleDirector, rows, nil)

	schools := report.SchoolPercentages()
	assert.True(t, schools["Escola Sem Quota"].IsNA())
	assert.Equal(t, "50.0%", report.HubPercentages()["A"].String(), "a (0,0) school does not move its hub")
	assert.Equal(t, "50.0%", report.RegionPercentages()["GRE-1"].String())

	hub, ok := report.Hub("A")
	require.True(t, ok)
	assert.Equal(t, allocation.StatusNotRequired, hub.Schools[1].Status)
}

func TestAggregateAllZeroIsNA(t *testing.T) {
	report := NewAggregator().Aggregate(allocation.RoleCoordinator, []allocation.JoinedRow{
		row("GRE-1", "A", "Escola A", 0, 0),
	}, nil)

	assert.True(t, report.HubPercentages()["A"].IsNA())
	assert.True(t, report.RegionPercentages()["GRE-1"].IsNA())
	assert.True(t, report.Percentage.IsNA())
}

func TestAggregateDropsMalformedRows(t *testing.T) {
	valid := []allocation.JoinedRow{
		row("GRE-1", "A", "Escola A", 10, 7),
		row("GRE-1", "B", "Escola B", 5, 5),
	}
	baseline := NewAggregator().Aggregate(allocation.RoleDirector, valid, nil)

	withBad := []allocation.JoinedRow{
		valid[0],
		row("GRE-1", "", "Escola Sem Polo", 3, 3),
		row("", "C", "Escola Sem GRE", 3, 0),
		row("GRE-1", "B", "", 1, 1),
		row("GRE-1", "B", "Escola Negativa", -1, 0),
		row("GRE-2", "A", "Escola Perdida", 2, 0), // hub A already belongs to GRE-1
		valid[1],
	}

	var report *allocation.Report
	require.NotPanics(t, func() {
		report = NewAggregator().Aggregate(allocation.RoleDirector, withBad, nil)
	})

	assert.Equal(t, baseline.SchoolPercentages(), report.SchoolPercentages())
	assert.Equal(t, baseline.HubPercentages(), report.HubPercentages())
	assert.Equal(t, baseline.RegionPercentages(), report.RegionPercentages())
	require.Len(t, report.Dropped, 5)
	assert.Equal(t, SourceAggregate, report.Dropped[0].Source)
	assert.Equal(t, 2, report.Dropped[0].Row)
}

func TestAggregateKeepsEarlierDrops(t *testing.T) {
	earlier := []allocation.DroppedRow{{Source: SourceAllocation, Row: 9, Reason: "escola desconhecida"}}
	report := NewAggregator().Aggregate(allocation.RoleDirector, []allocation.JoinedRow{row("GRE-1", "A", "Escola A", 1, 1)}, earlier)

	require.Len(t, report.Dropped, 1)
	assert.Equal(t, earlier[0], report.Dropped[0])
}

func TestAggregateFirstAppearanceOrder(t *testing.T) {
	rows := []allocation.JoinedRow{
		row("GRE-2", "Z", "Escola 1", 1, 1),
		row("GRE-1", "Y", "Escola 2", 1, 0),
		row("GRE-2", "X", "Escola 3", 1, 0),
		row("GRE-2", "Z", "Escola 4", 1, 1),
	}

	report := NewAggregator().Aggregate(allocation.RoleDirector, rows, nil)

	require.Len(t, report.Regions, 2)
	assert.Equal(t, "GRE-2", report.Regions[0].ID)
	assert.Equal(t, "GRE-1", report.Regions[1].ID)
	require.Len(t, report.Regions[0].Hubs, 2)
	assert.Equal(t, "Z", report.Regions[0].Hubs[0].ID)
	assert.Equal(t, "X", report.Regions[0].Hubs[1].ID)
	assert.Equal(t, []string{"Escola 1", "Escola 4"}, []string{
		report.Regions[0].Hubs[0].Schools[0].ID,
		report.Regions[0].Hubs[0].Schools[1].ID,
	})
}

func TestAggregateMergesDuplicateSchoolRows(t *testing.T) {
	first := row("GRE-1", "A", "Escola A", 1, 1)
	first.Person = "Maria"
	second := row("GRE-1", "A", "Escola A", 1, 1)
	second.Person = "João"
	overfilled := row("GRE-1", "A", "Escola B", 1, 3)

	report := NewAggregator().Aggregate(allocation.RoleDirector, []allocation.JoinedRow{first, second, overfilled}, nil)

	hub, ok := report.Hub("A")
	require.True(t, ok)
	require.Len(t, hub.Schools, 2)
	assert.Equal(t, allocation.Counts{Required: 2, Filled: 2}, hub.Schools[0].Counts)
	assert.Equal(t, 2, hub.Schools[0].Classes)
	assert.Equal(t, "Maria", hub.Schools[0].Person)
	assert.Equal(t, allocation.Counts{Required: 1, Filled: 1}, hub.Schools[1].Counts, "filled is clamped to required")
	assert.Equal(t, 3, hub.Classes)
	assert.Equal(t, 3, hub.ClassesFilled)
}

func TestAggregatePercentagesInRange(t *testing.T) {
	rows := []allocation.JoinedRow{
		row("GRE-1", "A", "s1", 3, 1),
		row("GRE-1", "A", "s2", 0, 0),
		row("GRE-1", "B", "s3", 2, 9),
		row("GRE-2", "C", "s4", 7, 0),
		row("GRE-2", "D", "s5", 0, 4),
	}
	report := NewAggregator().Aggregate(allocation.RoleDirector, rows, nil)

	check := func(p allocation.Percentage) {
		if v, ok := p.Value(); ok {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		} else {
			assert.Equal(t, allocation.NotAvailable, p.String())
		}
	}
	for _, m := range []map[string]allocation.Percentage{report.RegionPercentages(), report.HubPercentages(), report.SchoolPercentages()} {
		for _, p := range m {
			check(p)
		}
	}
}

func TestAggregateDeterministic(t *testing.T) {
	rows := []allocation.JoinedRow{
		row("GRE-1", "A", "s1", 3, 1),
		row("GRE-2", "B", "s2", 2, 2),
		row("GRE-1", "C", "s3", 5, 4),
	}
	agg := NewAggregator()
	first := agg.Aggregate(allocation.RoleDirector, rows, nil)
	second := agg.Aggregate(allocation.RoleDirector, rows, nil)

	assert.Equal(t, first.Regions, second.Regions)
	assert.Equal(t, first.RegionPercentages(), second.RegionPercentages())
	assert.Equal(t, first.HubPercentages(), second.HubPercentages())
	assert.Equal(t, first.SchoolPercentages(), second.SchoolPercentages())
}
