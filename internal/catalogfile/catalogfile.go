// Package catalogfile reads and writes checklist catalogs as TOML.
//
// A catalog file has one array of tables per vehicle type:
//
//	[[checklists.BUS]]
//	id = "b1"
//	category = "Segurança"
//	label = "Travões (Teste Estático)"
//
//	[[checklists.TRAM]]
//	id = "t1"
//	category = "Mecânica"
//	label = "Pantógrafo / Trolley"
package catalogfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fleetops/fleetcheck"
)

// File is the decoded form of a catalog file.
type File struct {
	Checklists map[string][]fleetcheck.ChecklistItem `toml:"checklists"`
}

// Read decodes and validates a catalog from r. Vehicle type keys are
// case-insensitive; unknown keys in the file are rejected.
func Read(r io.Reader) (*fleetcheck.Catalog, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fleetcheck.Invalid("Unknown keys in catalog: %s", strings.Join(keys, ", "))
	}

	lists := make(map[fleetcheck.VehicleType][]fleetcheck.ChecklistItem, len(f.Checklists))
	for key, items := range f.Checklists {
		t, err := fleetcheck.ParseVehicleType(key)
		if err != nil {
			return nil, err
		}
		if _, dup := lists[t]; dup {
			return nil, fleetcheck.Invalid("Checklist for %s is defined twice", t)
		}
		lists[t] = items
	}

	return fleetcheck.NewCatalog(lists)
}

// Write encodes c to w in the format accepted by Read.
func Write(w io.Writer, c *fleetcheck.Catalog) error {
	f := File{Checklists: make(map[string][]fleetcheck.ChecklistItem)}
	for t, items := range c.Lists() {
		f.Checklists[t.String()] = items
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

// ReadFromFile reads a catalog from the specified file path.
func ReadFromFile(path string) (*fleetcheck.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading catalog from %s: %w", path, err)
	}
	return c, nil
}
