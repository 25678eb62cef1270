package fleetcheck

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Categories used by the built-in checklists. Catalogs may define others.
const (
	CategorySafety     = "Segurança"
	CategoryExterior   = "Exterior"
	CategoryInterior   = "Interior"
	CategoryMechanical = "Mecânica"
)

// NormalizeCategory returns the bucket key for a free-text category: Unicode
// NFC, trimmed, with inner runs of whitespace collapsed to one space. Composed
// and decomposed spellings of the same name map to the same key.
func NormalizeCategory(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
