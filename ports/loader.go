package ports

import (
	"context"

	"alocdash/domain/allocation"
)

// HierarchySource loads the GRE / Polo / Escola table from a file
type HierarchySource interface {
	LoadHierarchy(ctx context.Context, path string) ([]allocation.HierarchyRow, error)
}

// AllocationSource loads the coordinator / director allocation records from a file
type AllocationSource interface {
	LoadAllocations(ctx context.Context, path string) ([]allocation.AllocationRecord, error)
}
