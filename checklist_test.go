package fleetcheck_test

import (
	"testing"

	"github.com/fleetops/fleetcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestDefaultCatalog(t *testing.T) {
	c := fleetcheck.DefaultCatalog()

	assert.Equal(t, fleetcheck.VehicleTypes, c.Types())

	bus, err := c.Checklist(fleetcheck.VehicleTypeBus)
	require.NoError(t, err)
	assert.Len(t, bus, 10)
	assert.Equal(t, "b1", bus[0].ID)
	assert.Equal(t, "b10", bus[9].ID)

	tram, err := c.Checklist(fleetcheck.VehicleTypeTram)
	require.NoError(t, err)
	assert.Len(t, tram, 6)
}

func TestCatalog_ChecklistReturnsCopy(t *testing.T) {
	c := fleetcheck.DefaultCatalog()

	items, err := c.Checklist(fleetcheck.VehicleTypeBus)
	require.NoError(t, err)
	items[0].Label = "changed"

	again, err := c.Checklist(fleetcheck.VehicleTypeBus)
	require.NoError(t, err)
	assert.Equal(t, "Travões (Teste Estático)", again[0].Label)
}

func TestCatalog_Unresolved(t *testing.T) {
	c := fleetcheck.DefaultCatalog()

	_, err := c.Checklist(fleetcheck.VehicleType("FERRY"))
	require.Error(t, err)
	assert.Equal(t, fleetcheck.EUNRESOLVED, fleetcheck.ErrorCode(err))
}

func TestNewCatalog_MustBeTotal(t *testing.T) {
	_, err := fleetcheck.NewCatalog(map[fleetcheck.VehicleType][]fleetcheck.ChecklistItem{
		fleetcheck.VehicleTypeBus: {{ID: "b1", Category: "Segurança", Label: "Travões"}},
	})
	require.Error(t, err)
	assert.Equal(t, fleetcheck.EUNRESOLVED, fleetcheck.ErrorCode(err))
}

func TestNewCatalog_RejectsInvalidLists(t *testing.T) {
	tram := []fleetcheck.ChecklistItem{{ID: "t1", Category: "Mecânica", Label: "Pantógrafo"}}

	tests := []struct {
		name string
		bus  []fleetcheck.ChecklistItem
	}{
		{"empty list", []fleetcheck.ChecklistItem{}},
		{"duplicate id", []fleetcheck.ChecklistItem{
			{ID: "b1", Category: "Segurança", Label: "Travões"},
			{ID: "b1", Category: "Exterior", Label: "Espelhos"},
		}},
		{"missing id", []fleetcheck.ChecklistItem{{Category: "Segurança", Label: "Travões"}}},
		{"blank category", []fleetcheck.ChecklistItem{{ID: "b1", Category: "  ", Label: "Travões"}}},
		{"blank label", []fleetcheck.ChecklistItem{{ID: "b1", Category: "Segurança"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fleetcheck.NewCatalog(map[fleetcheck.VehicleType][]fleetcheck.ChecklistItem{
				fleetcheck.VehicleTypeBus:  tt.bus,
				fleetcheck.VehicleTypeTram: tram,
			})
			require.Error(t, err)
			assert.Equal(t, fleetcheck.EINVALID, fleetcheck.ErrorCode(err))
		})
	}
}

func TestNewCatalog_IDsMayRepeatAcrossTypes(t *testing.T) {
	c, err := fleetcheck.NewCatalog(map[fleetcheck.VehicleType][]fleetcheck.ChecklistItem{
		fleetcheck.VehicleTypeBus:  {{ID: "1", Category: "Segurança", Label: "Travões"}},
		fleetcheck.VehicleTypeTram: {{ID: "1", Category: "Segurança", Label: "Travão de Via"}},
	})
	require.NoError(t, err)

	bus, ok := c.Item(fleetcheck.VehicleTypeBus, "1")
	require.True(t, ok)
	assert.Equal(t, "Travões", bus.Label)

	tram, ok := c.Item(fleetcheck.VehicleTypeTram, "1")
	require.True(t, ok)
	assert.Equal(t, "Travão de Via", tram.Label)
}

func TestNewCatalog_NormalizesCategories(t *testing.T) {
	c, err := fleetcheck.NewCatalog(map[fleetcheck.VehicleType][]fleetcheck.ChecklistItem{
		fleetcheck.VehicleTypeBus:  {{ID: "b1", Category: norm.NFD.String(" Segurança "), Label: "Travões"}},
		fleetcheck.VehicleTypeTram: {{ID: "t1", Category: "Mecânica", Label: "Pantógrafo"}},
	})
	require.NoError(t, err)

	item, ok := c.Item(fleetcheck.VehicleTypeBus, "b1")
	require.True(t, ok)
	assert.Equal(t, fleetcheck.CategorySafety, item.Category)
}

func TestCatalog_With(t *testing.T) {
	c := fleetcheck.DefaultCatalog()

	updated, err := c.With(fleetcheck.VehicleTypeTram, []fleetcheck.ChecklistItem{
		{ID: "t1", Category: "Mecânica", Label: "Pantógrafo"},
	})
	require.NoError(t, err)

	tram, err := updated.Checklist(fleetcheck.VehicleTypeTram)
	require.NoError(t, err)
	assert.Len(t, tram, 1)

	// The original catalog is unchanged.
	original, err := c.Checklist(fleetcheck.VehicleTypeTram)
	require.NoError(t, err)
	assert.Len(t, original, 6)

	_, err = c.With(fleetcheck.VehicleTypeTram, nil)
	assert.Error(t, err)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Segurança", fleetcheck.NormalizeCategory(norm.NFD.String("Segurança")))
	assert.Equal(t, "Limpeza Geral", fleetcheck.NormalizeCategory("  Limpeza \t Geral "))
	assert.Equal(t, "", fleetcheck.NormalizeCategory("   "))
}
