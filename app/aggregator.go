package app

import (
	"fmt"

	"alocdash/domain/allocation"
	"alocdash/internal"
)

// PersonPlaceholder is shown for schools with nobody allocated
const PersonPlaceholder = "Sem informação"

// Aggregator rolls joined school rows up into hubs and regions
type Aggregator struct {
	logger *internal.Logger
}

// NewAggregator creates an aggregator logging through the default logger
func NewAggregator() *Aggregator {
	return &Aggregator{logger: internal.DefaultLogger.With("Aggregator")}
}

type schoolAcc struct {
	row    allocation.JoinedRow
	counts allocation.Counts
}

type hubAcc struct {
	id, name string
	order    []string
	schools  map[string]*schoolAcc
}

type regionAcc struct {
	id, name string
	order    []string
	hubs     map[string]*hubAcc
}

// Aggregate groups rows by region, then hub, then school in a single pass and
// returns the report tree in first-appearance order. Malformed rows (missing
// region/hub/school id, negative counts, a hub or school claimed by a second
// parent) are dropped with a warning; they never abort the aggregation.
// dropped carries exclusions from earlier stages into the report.
func (a *Aggregator) Aggregate(role allocation.Role, rows []allocation.JoinedRow, dropped []allocation.DroppedRow) *allocation.Report {
	excluded := append([]allocation.DroppedRow(nil), dropped...)
	drop := func(i int, reason string) {
		a.logger.Warn("Dropping row %d: %s", i+1, reason)
		excluded = append(excluded, allocation.DroppedRow{Source: SourceAggregate, Row: i + 1, Reason: reason})
	}

	var regionOrder []string
	regions := make(map[string]*regionAcc)
	hubParent := make(map[string]string)
	schoolParent := make(map[string]string)

	for i, row := range rows {
		switch {
		case row.RegionID == "":
			drop(i, fmt.Sprintf("escola %q sem GRE", row.SchoolName))
			continue
		case row.HubID == "":
			drop(i, fmt.Sprintf("escola %q sem polo", row.SchoolName))
			continue
		case row.SchoolID == "":
			drop(i, "linha sem escola")
			continue
		case row.Required < 0 || row.Filled < 0:
			drop(i, fmt.Sprintf("escola %q com contagem negativa", row.SchoolName))
			continue
		}
		if parent, ok := hubParent[row.HubID]; ok && parent != row.RegionID {
			drop(i, fmt.Sprintf("polo %q já pertence a outra GRE", row.HubName))
			continue
		}
		if parent, ok := schoolParent[row.SchoolID]; ok && parent != row.HubID {
			drop(i, fmt.Sprintf("escola %q já pertence a outro polo", row.SchoolName))
			continue
		}

		region, ok := regions[row.RegionID]
		if !ok {
			region = &regionAcc{id: row.RegionID, name: labelOr(row.RegionName, row.RegionID), hubs: make(map[string]*hubAcc)}
			regions[row.RegionID] = region
			regionOrder = append(regionOrder, row.RegionID)
		}
		hub, ok := region.hubs[row.HubID]
		if !ok {
			hub = &hubAcc{id: row.HubID, name: labelOr(row.HubName, row.HubID), schools: make(map[string]*schoolAcc)}
			region.hubs[row.HubID] = hub
			region.order = append(region.order, row.HubID)
			hubParent[row.HubID] = row.RegionID
		}
		school, ok := hub.schools[row.SchoolID]
		if !ok {
			school = &schoolAcc{row: row}
			school.row.Classes = 0
			hub.schools[row.SchoolID] = school
			hub.order = append(hub.order, row.SchoolID)
			schoolParent[row.SchoolID] = row.HubID
		} else if school.row.Person == "" {
			school.row.Person = row.Person
		}
		school.counts.Add(allocation.Counts{Required: row.Required, Filled: row.Filled})
		school.row.Classes += row.Classes
	}

	summaries := make([]allocation.RegionSummary, 0, len(regionOrder))
	for _, regionID := range regionOrder {
		summaries = append(summaries, buildRegion(regions[regionID]))
	}

	report := allocation.NewReport(role, summaries, excluded)
	a.logger.Debug("Aggregated %d rows into %d regions (%s, %d dropped)", len(rows), len(summaries), report.Percentage, len(excluded))
	return report
}

func buildRegion(region *regionAcc) allocation.RegionSummary {
	summary := allocation.RegionSummary{
		ID:   region.id,
		Name: region.name,
		Hubs: make([]allocation.HubSummary, 0, len(region.order)),
	}
	for _, hubID := range region.order {
		hub := buildHub(region.id, region.hubs[hubID])
		summary.Counts.Add(hub.Counts)
		summary.Hubs = append(summary.Hubs, hub)
	}
	summary.Percentage = summary.Counts.Percentage()
	return summary
}

func buildHub(regionID string, hub *hubAcc) allocation.HubSummary {
	summary := allocation.HubSummary{
		ID:       hub.id,
		Name:     hub.name,
		RegionID: regionID,
		Schools:  make([]allocation.SchoolSummary, 0, len(hub.order)),
	}
	for _, schoolID := range hub.order {
		acc := hub.schools[schoolID]
		counts := acc.counts
		if counts.Filled > counts.Required {
			counts.Filled = counts.Required
		}
		person := acc.row.Person
		if person == "" {
			person = PersonPlaceholder
		}
		school := allocation.SchoolSummary{
			ID:         acc.row.SchoolID,
			Name:       labelOr(acc.row.SchoolName, acc.row.SchoolID),
			INEP:       acc.row.INEP,
			Counts:     counts,
			Percentage: counts.Percentage(),
			Status:     allocation.StatusOf(counts),
			Classes:    acc.row.Classes,
			Person:     person,
		}
		summary.Counts.Add(counts)
		summary.Classes += school.Classes
		if counts.Filled > 0 {
			summary.ClassesFilled += school.Classes
		}
		summary.Schools = append(summary.Schools, school)
	}
	summary.Percentage = summary.Counts.Percentage()
	return summary
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
