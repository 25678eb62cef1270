package fleetcheck

import (
	"context"
	"fmt"
	"strings"
)

// ChecklistItem identifies one inspectable point on a vehicle.
type ChecklistItem struct {
	ID       string `json:"id" toml:"id"`
	Category string `json:"category" toml:"category"`
	Label    string `json:"label" toml:"label"`
}

// Catalog maps every vehicle type to its ordered checklist. A Catalog built
// with NewCatalog is total over VehicleTypes and safe for concurrent reads.
type Catalog struct {
	lists map[VehicleType][]ChecklistItem
	index map[VehicleType]map[string]ChecklistItem
}

// NewCatalog validates lists and builds a catalog from them. Every type in
// VehicleTypes must have a non-empty list. Categories are normalized.
func NewCatalog(lists map[VehicleType][]ChecklistItem) (*Catalog, error) {
	c := &Catalog{
		lists: make(map[VehicleType][]ChecklistItem, len(lists)),
		index: make(map[VehicleType]map[string]ChecklistItem, len(lists)),
	}

	for t, items := range lists {
		if !t.IsValid() {
			return nil, Invalid("Unknown vehicle type %q in catalog", string(t))
		}
		if err := ValidateChecklist(items); err != nil {
			return nil, WrapError(EINVALID, fmt.Sprintf("Invalid checklist for %s", t), err)
		}

		list := make([]ChecklistItem, len(items))
		idx := make(map[string]ChecklistItem, len(items))
		for i, item := range items {
			item.Category = NormalizeCategory(item.Category)
			list[i] = item
			idx[item.ID] = item
		}
		c.lists[t] = list
		c.index[t] = idx
	}

	for _, t := range VehicleTypes {
		if len(c.lists[t]) == 0 {
			return nil, UnresolvedVehicleType(t)
		}
	}

	return c, nil
}

// ValidateChecklist checks a single type's list: non-empty, every item has an
// id, category and label, and ids are unique within the list.
func ValidateChecklist(items []ChecklistItem) error {
	if len(items) == 0 {
		return Invalid("Checklist must contain at least one item")
	}

	fields := make(map[string]string)
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		key := item.ID
		if key == "" {
			key = fmt.Sprintf("items[%d]", i)
			fields[key] = "id is required"
			continue
		}
		if seen[item.ID] {
			fields[key] = "duplicate item id"
		}
		seen[item.ID] = true
		if NormalizeCategory(item.Category) == "" {
			fields[key] = "category is required"
		}
		if strings.TrimSpace(item.Label) == "" {
			fields[key] = "label is required"
		}
	}

	if len(fields) > 0 {
		return ErrorWithFields(fields)
	}
	return nil
}

// Checklist returns a copy of the ordered items for t.
// Returns EUNRESOLVED if no checklist is configured for t.
func (c *Catalog) Checklist(t VehicleType) ([]ChecklistItem, error) {
	items, ok := c.lists[t]
	if !ok {
		return nil, UnresolvedVehicleType(t)
	}
	out := make([]ChecklistItem, len(items))
	copy(out, items)
	return out, nil
}

// Item looks up a single item of t's checklist by id.
func (c *Catalog) Item(t VehicleType, id string) (ChecklistItem, bool) {
	item, ok := c.index[t][id]
	return item, ok
}

// Types returns the configured vehicle types in VehicleTypes order.
func (c *Catalog) Types() []VehicleType {
	types := make([]VehicleType, 0, len(c.lists))
	for _, t := range VehicleTypes {
		if _, ok := c.lists[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// Lists returns a copy of every checklist keyed by type.
func (c *Catalog) Lists() map[VehicleType][]ChecklistItem {
	out := make(map[VehicleType][]ChecklistItem, len(c.lists))
	for t := range c.lists {
		out[t], _ = c.Checklist(t)
	}
	return out
}

// With returns a new catalog in which t's checklist is replaced by items.
func (c *Catalog) With(t VehicleType, items []ChecklistItem) (*Catalog, error) {
	lists := c.Lists()
	lists[t] = items
	return NewCatalog(lists)
}

// CatalogService defines operations for reading and configuring checklists.
type CatalogService interface {
	// FindCatalog returns the current catalog.
	// Returns EUNRESOLVED if a vehicle type has no checklist configured.
	FindCatalog(ctx context.Context) (*Catalog, error)

	// ReplaceChecklist replaces the checklist of a vehicle type.
	// Existing inspection records are not affected; they keep the
	// category and label captured when they were created.
	// Returns EINVALID if the list fails ValidateChecklist.
	ReplaceChecklist(ctx context.Context, t VehicleType, items []ChecklistItem) (*Catalog, error)
}

// DefaultCatalog returns the built-in bus and tram checklists.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(map[VehicleType][]ChecklistItem{
		VehicleTypeBus: {
			{ID: "b1", Category: CategorySafety, Label: "Travões (Teste Estático)"},
			{ID: "b2", Category: CategorySafety, Label: "Luzes Exteriores (Médios/Piscas/Stop)"},
			{ID: "b3", Category: CategoryExterior, Label: "Espelhos Retrovisores"},
			{ID: "b4", Category: CategoryExterior, Label: "Limpa Pára-brisas"},
			{ID: "b5", Category: CategoryInterior, Label: "Validadores de Bilhetes"},
			{ID: "b6", Category: CategoryInterior, Label: "Limpeza Geral / Lixos"},
			{ID: "b7", Category: CategoryMechanical, Label: "Ruídos Anormais Motor"},
			{ID: "b8", Category: CategoryMechanical, Label: "Nível de Combustível/Bateria"},
			{ID: "b9", Category: CategorySafety, Label: "Pneus (Estado/Pressão Visual)"},
			{ID: "b10", Category: CategoryInterior, Label: "Sinalização de Paragem"},
		},
		VehicleTypeTram: {
			{ID: "t1", Category: CategoryMechanical, Label: "Pantógrafo / Trolley"},
			{ID: "t2", Category: CategorySafety, Label: "Areneiros (Nível Areia)"},
			{ID: "t3", Category: CategorySafety, Label: "Travão de Via"},
			{ID: "t4", Category: CategoryExterior, Label: "Luzes e Sinalização"},
			{ID: "t5", Category: CategoryInterior, Label: "Limpeza e Bancos"},
			{ID: "t6", Category: CategoryMechanical, Label: "Rodados (Ruído Visual)"},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}
