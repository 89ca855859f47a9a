package app

import (
	stderrors "errors"
	"fmt"

	"alocdash/domain/allocation"
	"alocdash/domain/core"
	"alocdash/internal"
)

// Sources that a dropped row can come from
const (
	SourceHierarchy  = "totais"
	SourceAllocation = "alocacao"
	SourceAggregate  = "agregacao"
)

var joinLogger = internal.DefaultLogger.With("Join")

// Quotas are the per-school required counts used when the hierarchy table
// has no quota column for a role
type Quotas struct {
	Directors    int
	Coordinators int
}

// Directory is the deduplicated Region / Hub / School tree of one hierarchy
// table, indexed for matching allocation records. Read-only once built.
type Directory struct {
	Regions []allocation.Region
	Hubs    []allocation.Hub
	Schools []allocation.School
	Dropped []allocation.DroppedRow

	regionName map[string]string
	hubName    map[string]string
	hubRegion  map[string]string
	schoolIdx  map[string]int
	byINEP     map[string]int
	byHubName  map[string]int
	byName     map[string][]int
}

// RegionID derives the region identifier from a GRE label
func RegionID(gre string) string {
	return allocation.NormalizeKey(gre)
}

// HubID derives the hub identifier; polos are scoped by their GRE
func HubID(gre, polo string) string {
	return RegionID(gre) + "/" + allocation.NormalizeKey(polo)
}

// BuildDirectory deduplicates hierarchy rows into schools. Each extra row of a
// school counts as one more class. A school is the same school when its INEP
// matches, or when it has the same name in the same hub and at most one side
// carries an INEP. Rows missing GRE, Polo or Escola, and rows that would move
// a school to a second hub, are dropped with a warning.
func BuildDirectory(rows []allocation.HierarchyRow, quotas Quotas) *Directory {
	d := &Directory{
		regionName: make(map[string]string),
		hubName:    make(map[string]string),
		hubRegion:  make(map[string]string),
		schoolIdx:  make(map[string]int),
		byINEP:     make(map[string]int),
		byHubName:  make(map[string]int),
		byName:     make(map[string][]int),
	}

	for _, row := range rows {
		var missing string
		switch {
		case allocation.NormalizeKey(row.GRE) == "":
			missing = "GRE vazia"
		case allocation.NormalizeKey(row.Polo) == "":
			missing = "polo vazio"
		case allocation.NormalizeKey(row.Escola) == "":
			missing = "escola vazia"
		}
		if missing != "" {
			d.drop(SourceHierarchy, core.NewMissingReferenceError(row.Row, missing))
			continue
		}

		regionID := RegionID(row.GRE)
		hubID := HubID(row.GRE, row.Polo)
		nameKey := allocation.NormalizeKey(row.Escola)
		schoolID := row.INEP
		if schoolID == "" {
			schoolID = hubID + "/" + nameKey
		}

		if idx, seen := d.schoolIdx[schoolID]; seen {
			school := &d.Schools[idx]
			if school.HubID != hubID {
				d.drop(SourceHierarchy, core.NewMissingReferenceError(row.Row,
					fmt.Sprintf("escola %q já pertence ao polo %s", row.Escola, d.hubName[school.HubID])))
				continue
			}
			school.Classes++
			continue
		}
		if idx, seen := d.byHubName[hubID+"|"+nameKey]; seen && d.mergeINEP(idx, row.INEP) {
			d.Schools[idx].Classes++
			continue
		}

		if _, seen := d.regionName[regionID]; !seen {
			d.regionName[regionID] = row.GRE
			d.Regions = append(d.Regions, allocation.Region{ID: regionID, Name: row.GRE})
		}
		if _, seen := d.hubName[hubID]; !seen {
			d.hubName[hubID] = row.Polo
			d.hubRegion[hubID] = regionID
			d.Hubs = append(d.Hubs, allocation.Hub{ID: hubID, Name: row.Polo, RegionID: regionID})
		}

		school := allocation.School{
			ID:                   schoolID,
			Name:                 row.Escola,
			INEP:                 row.INEP,
			HubID:                hubID,
			RequiredDirectors:    quotaOr(row.Directors, quotas.Directors),
			RequiredCoordinators: quotaOr(row.Coordinators, quotas.Coordinators),
			Classes:              1,
		}
		idx := len(d.Schools)
		d.Schools = append(d.Schools, school)
		d.schoolIdx[schoolID] = idx
		if row.INEP != "" {
			d.byINEP[row.INEP] = idx
		}
		d.byHubName[hubID+"|"+nameKey] = idx
		d.byName[nameKey] = append(d.byName[nameKey], idx)
	}

	return d
}

// mergeINEP reports whether a row carrying inep can join the school at idx,
// which is found by hub and name. A school without an INEP adopts the first
// one it sees, and that becomes its id.
func (d *Directory) mergeINEP(idx int, inep string) bool {
	school := &d.Schools[idx]
	switch {
	case inep == "" || inep == school.INEP:
		return true
	case school.INEP != "":
		return false
	}
	school.INEP = inep
	school.ID = inep
	d.schoolIdx[inep] = idx
	d.byINEP[inep] = idx
	return true
}

// RegionName returns the first-seen label of a region
func (d *Directory) RegionName(id string) string {
	return d.regionName[id]
}

// HubName returns the first-seen label of a hub
func (d *Directory) HubName(id string) string {
	return d.hubName[id]
}

// Match finds the school an allocation record refers to: by INEP first, then
// by GRE + Polo + school name, then by school name when it is unique.
func (d *Directory) Match(record allocation.AllocationRecord) (int, error) {
	if record.INEP != "" {
		if idx, ok := d.byINEP[record.INEP]; ok {
			return idx, nil
		}
	}

	nameKey := allocation.NormalizeKey(record.Escola)
	if record.GRE != "" && record.Polo != "" {
		if idx, ok := d.byHubName[HubID(record.GRE, record.Polo)+"|"+nameKey]; ok {
			return idx, nil
		}
	}

	switch candidates := d.byName[nameKey]; len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return -1, core.NewMissingReferenceError(record.Row,
			fmt.Sprintf("escola %q não encontrada na base de totais", record.Escola))
	default:
		return -1, core.NewMissingReferenceError(record.Row,
			fmt.Sprintf("escola %q existe em %d polos; informe GRE, polo ou INEP", record.Escola, len(candidates)))
	}
}

func (d *Directory) drop(source string, err error) {
	d.Dropped = append(d.Dropped, droppedRow(source, err))
}

// droppedRow logs a row excluded by err and records it for the report
func droppedRow(source string, err error) allocation.DroppedRow {
	joinLogger.Warn("Dropping %s row: %v", source, err)
	var ref *core.MissingReferenceError
	if stderrors.As(err, &ref) {
		return allocation.DroppedRow{Source: source, Row: ref.Row, Reason: ref.Reason}
	}
	return allocation.DroppedRow{Source: source, Reason: err.Error()}
}

// Join pairs the directory with the allocation records of one role and
// yields one row per school, in directory order. Filled counts distinct
// allocated people and never exceeds the school's quota.
func Join(d *Directory, records []allocation.AllocationRecord, role allocation.Role) ([]allocation.JoinedRow, []allocation.DroppedRow) {
	dropped := append([]allocation.DroppedRow(nil), d.Dropped...)
	people := make([]map[string]bool, len(d.Schools))
	firstPerson := make([]string, len(d.Schools))

	for _, record := range records {
		if record.Role != role {
			continue
		}
		idx, err := d.Match(record)
		if err != nil {
			dropped = append(dropped, droppedRow(SourceAllocation, err))
			continue
		}
		if !record.Filled {
			continue
		}
		if people[idx] == nil {
			people[idx] = make(map[string]bool)
			firstPerson[idx] = record.Person
		}
		people[idx][allocation.NormalizeKey(record.Person)] = true
	}

	rows := make([]allocation.JoinedRow, 0, len(d.Schools))
	for i, school := range d.Schools {
		required := school.Required(role)
		filled := len(people[i])
		if filled > required {
			filled = required
		}
		hub := d.hubName[school.HubID]
		regionID := d.hubRegion[school.HubID]
		rows = append(rows, allocation.JoinedRow{
			RegionID:   regionID,
			RegionName: d.regionName[regionID],
			HubID:      school.HubID,
			HubName:    hub,
			SchoolID:   school.ID,
			SchoolName: school.Name,
			INEP:       school.INEP,
			Required:   required,
			Filled:     filled,
			Classes:    school.Classes,
			Person:     firstPerson[i],
		})
	}
	return rows, dropped
}

func quotaOr(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}
