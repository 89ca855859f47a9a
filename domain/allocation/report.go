package allocation

import "sort"

// Report is the aggregated tree for one role. It is read-only once built.
type Report struct {
	Role       Role            `json:"role"`
	Regions    []RegionSummary `json:"regions"`
	Totals     Counts          `json:"totals"`
	Percentage Percentage      `json:"percentage"`
	Dropped    []DroppedRow    `json:"dropped,omitempty"`

	regionIndex map[string]int
	hubIndex    map[string][2]int
}

// NewReport indexes regions and hubs by id and computes the overall totals
func NewReport(role Role, regions []RegionSummary, dropped []DroppedRow) *Report {
	r := &Report{
		Role:        role,
		Regions:     regions,
		Dropped:     dropped,
		regionIndex: make(map[string]int, len(regions)),
		hubIndex:    make(map[string][2]int),
	}
	for i, region := range regions {
		r.regionIndex[region.ID] = i
		r.Totals.Add(region.Counts)
		for j, hub := range region.Hubs {
			r.hubIndex[hub.ID] = [2]int{i, j}
		}
	}
	r.Percentage = r.Totals.Percentage()
	return r
}

// Region looks a region up by id
func (r *Report) Region(id string) (*RegionSummary, bool) {
	i, ok := r.regionIndex[id]
	if !ok {
		return nil, false
	}
	return &r.Regions[i], true
}

// Hub looks a hub up by its id
func (r *Report) Hub(id string) (*HubSummary, bool) {
	pos, ok := r.hubIndex[id]
	if !ok {
		return nil, false
	}
	return &r.Regions[pos[0]].Hubs[pos[1]], true
}

// RegionPercentages maps region id to its percentage
func (r *Report) RegionPercentages() map[string]Percentage {
	out := make(map[string]Percentage, len(r.Regions))
	for _, region := range r.Regions {
		out[region.ID] = region.Percentage
	}
	return out
}

// HubPercentages maps hub id to its percentage
func (r *Report) HubPercentages() map[string]Percentage {
	out := make(map[string]Percentage, len(r.hubIndex))
	for _, region := range r.Regions {
		for _, hub := range region.Hubs {
			out[hub.ID] = hub.Percentage
		}
	}
	return out
}

// SchoolPercentages maps school id to its percentage
func (r *Report) SchoolPercentages() map[string]Percentage {
	out := make(map[string]Percentage)
	for _, region := range r.Regions {
		for _, hub := range region.Hubs {
			for _, school := range hub.Schools {
				out[school.ID] = school.Percentage
			}
		}
	}
	return out
}

// SchoolCount returns the number of schools in the tree
func (r *Report) SchoolCount() int {
	n := 0
	for _, region := range r.Regions {
		for _, hub := range region.Hubs {
			n += len(hub.Schools)
		}
	}
	return n
}

// SortRegionsByPercentage returns a copy of the regions ordered by percentage
// descending. Ties keep source order; N/A goes last.
func SortRegionsByPercentage(regions []RegionSummary) []RegionSummary {
	out := append([]RegionSummary(nil), regions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Percentage.Less(out[i].Percentage)
	})
	return out
}

// SortHubsByPercentage is SortRegionsByPercentage for hubs
func SortHubsByPercentage(hubs []HubSummary) []HubSummary {
	out := append([]HubSummary(nil), hubs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Percentage.Less(out[i].Percentage)
	})
	return out
}
