package allocation

// Region is a GRE, the top hierarchy level
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Hub is a Polo; RegionID refers to its owning region
type Hub struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RegionID string `json:"region_id"`
}

// School is an Escola. Classes counts the hierarchy rows (turmas) seen for it.
type School struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	INEP                 string `json:"inep,omitempty"`
	HubID                string `json:"hub_id"`
	RequiredDirectors    int    `json:"required_directors"`
	RequiredCoordinators int    `json:"required_coordinators"`
	Classes              int    `json:"classes"`
}

// Required returns the quota of the school for a role
func (s School) Required(role Role) int {
	if role == RoleCoordinator {
		return s.RequiredCoordinators
	}
	return s.RequiredDirectors
}

// HierarchyRow is one parsed row of the hierarchy table. Quota pointers are
// nil when the table has no quota column for that role.
type HierarchyRow struct {
	Row          int
	GRE          string
	Polo         string
	Escola       string
	INEP         string
	Turma        string
	Directors    *int
	Coordinators *int
}

// AllocationRecord is one parsed row of the allocation table
type AllocationRecord struct {
	Row    int
	GRE    string
	Polo   string
	Escola string
	INEP   string
	Role   Role
	Person string
	Filled bool
}

// JoinedRow is the aggregator input: one school for one role
type JoinedRow struct {
	RegionID   string
	RegionName string
	HubID      string
	HubName    string
	SchoolID   string
	SchoolName string
	INEP       string
	Required   int
	Filled     int
	Classes    int
	Person     string
}

// Counts carries the two sums every node is built from
type Counts struct {
	Required int `json:"required"`
	Filled   int `json:"filled"`
}

// Add accumulates other into c
func (c *Counts) Add(other Counts) {
	c.Required += other.Required
	c.Filled += other.Filled
}

// Percentage returns filled/required for the counts
func (c Counts) Percentage() Percentage {
	return Ratio(c.Filled, c.Required)
}

// Missing returns the unfilled positions
func (c Counts) Missing() int {
	if c.Filled >= c.Required {
		return 0
	}
	return c.Required - c.Filled
}

// FillStatus summarizes a school for one role
type FillStatus string

const (
	StatusComplete    FillStatus = "completo"
	StatusPartial     FillStatus = "parcial"
	StatusEmpty       FillStatus = "vazio"
	StatusNotRequired FillStatus = "nao_exigido"
)

// StatusOf derives the status of a school from its counts
func StatusOf(c Counts) FillStatus {
	switch {
	case c.Required <= 0:
		return StatusNotRequired
	case c.Filled >= c.Required:
		return StatusComplete
	case c.Filled > 0:
		return StatusPartial
	default:
		return StatusEmpty
	}
}

// Label renders the status for a role, e.g. "Com Diretor"
func (s FillStatus) Label(role Role) string {
	switch s {
	case StatusComplete:
		return "Com " + role.Singular()
	case StatusPartial:
		return "Parcial"
	case StatusNotRequired:
		return "Não exigido"
	default:
		return "Sem " + role.Singular()
	}
}

// SchoolSummary is a leaf of the report tree
type SchoolSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	INEP       string     `json:"inep,omitempty"`
	Counts     Counts     `json:"counts"`
	Percentage Percentage `json:"percentage"`
	Status     FillStatus `json:"status"`
	Classes    int        `json:"classes"`
	Person     string     `json:"person"`
}

// HubSummary owns its schools in first-appearance order
type HubSummary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	RegionID      string          `json:"region_id"`
	Counts        Counts          `json:"counts"`
	Percentage    Percentage      `json:"percentage"`
	Classes       int             `json:"classes"`
	ClassesFilled int             `json:"classes_filled"`
	Schools       []SchoolSummary `json:"schools"`
}

// RegionSummary owns its hubs in first-appearance order
type RegionSummary struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Counts     Counts       `json:"counts"`
	Percentage Percentage   `json:"percentage"`
	Hubs       []HubSummary `json:"hubs"`
}

// DroppedRow records a row excluded from aggregation and why
type DroppedRow struct {
	Source string `json:"source"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
