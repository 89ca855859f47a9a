package excel

import (
	"context"

	"alocdash/domain/allocation"
)

// AllocationReader loads the coordinator / director allocation report
type AllocationReader struct {
	config      SheetConfig
	defaultRole allocation.Role
}

// NewAllocationReader creates a reader; rows without a role column get defaultRole
func NewAllocationReader(config SheetConfig, defaultRole allocation.Role) *AllocationReader {
	if defaultRole == "" {
		defaultRole = allocation.RoleDirector
	}
	return &AllocationReader{config: config, defaultRole: defaultRole}
}

// LoadAllocations reads one AllocationRecord per row. A record is filled
// unless its person cell is blank or says "sem informação".
func (a *AllocationReader) LoadAllocations(ctx context.Context, path string) ([]allocation.AllocationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := NewDataReader(path, a.config).ReadData(columnEscola, columnPerson)
	if err != nil {
		return nil, err
	}

	escolaCol, _ := data.Column(columnEscola...)
	personCol, _ := data.Column(columnPerson...)
	greCol, hasGRE := data.Column(columnGRE...)
	poloCol, hasPolo := data.Column(columnPolo...)
	inepCol, hasINEP := data.Column(columnINEP...)
	roleCol, hasRole := data.Column(columnRole...)

	records := make([]allocation.AllocationRecord, 0, len(data.Rows))
	for i, raw := range data.Rows {
		person := allocation.CleanLabel(raw[personCol])
		record := allocation.AllocationRecord{
			Row:    data.RowNumbers[i],
			Escola: allocation.CleanLabel(raw[escolaCol]),
			Role:   a.defaultRole,
			Person: person,
			Filled: !allocation.IsBlankPerson(person),
		}
		if hasGRE {
			record.GRE = allocation.CleanLabel(raw[greCol])
		}
		if hasPolo {
			record.Polo = allocation.CleanLabel(raw[poloCol])
		}
		if hasINEP {
			record.INEP = cleanCode(raw[inepCol])
		}
		if hasRole && raw[roleCol] != "" {
			role, err := allocation.ParseRole(raw[roleCol])
			if err != nil {
				logger.Warn("Row %d: %v, using %s", record.Row, err, a.defaultRole)
			} else {
				record.Role = role
			}
		}
		records = append(records, record)
	}
	return records, nil
}
