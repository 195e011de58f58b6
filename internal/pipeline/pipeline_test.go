package pipeline

import (
	"path/filepath"
	"testing"

	"voltmesh/mend/internal/config"
	"voltmesh/mend/internal/logging"
	"voltmesh/mend/internal/network"
	"voltmesh/mend/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Lines:        config.LineOptions{SMaxPU: 0.7, SNomAdd: 20, SNomFactor: 1.5},
		Links:        config.LinkOptions{PNomMax: 5000},
		Solving:      config.Solving{Options: "Co2L-3h"},
		LoggingLevel: "INFO",
	}
}

func writeDirtyNetwork(t *testing.T, path string) {
	t.Helper()
	n := &network.Network{
		Buses: []network.Bus{{ID: "B1"}, {ID: "B2"}},
		Generators: []network.Generator{
			{ID: "gen1", Bus: "B1", Carrier: "gas", PNom: 100, PMaxPU: 1},
			{ID: "slack", Bus: "B1", Carrier: "load", PNom: -50, PMaxPU: 1},
			{ID: "lost", Bus: "B99", Carrier: "wind", PNom: 10, PMaxPU: 1},
		},
		Loads: []network.Load{{ID: "load1", Bus: "B2", PSet: 80}},
		Lines: []network.Line{
			{ID: "7", Bus0: "B1", Bus1: "B2", SNom: 100, SMaxPU: 1},
			{ID: "8", Bus0: "B1", Bus1: "B2", SNom: 0, SMaxPU: 1},
		},
		Links:    []network.Link{{ID: "7", Bus0: "B1", Bus1: "B2", PNom: 40, Efficiency: 1}},
		Carriers: []network.Carrier{{ID: "gas"}},
	}
	if err := store.SaveTo(n, path); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func TestSanitizeOnlyToNewFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dirty.network.db")
	out := filepath.Join(dir, "clean.network.db")
	writeDirtyNetwork(t, in)

	n, err := SanitizeOnly(RunConfig{
		NetworkPath: in,
		OutputPath:  out,
		Config:      testConfig(),
		Log:         logging.Discard,
	})
	if err != nil {
		t.Fatalf("SanitizeOnly: %v", err)
	}

	// repairs happened in memory
	if len(n.Generators) != 1 {
		t.Errorf("generators = %d, want 1 (load-like and dangling removed)", len(n.Generators))
	}
	if len(n.Lines) != 1 || n.Lines[0].ID != "LN0" {
		t.Errorf("lines = %+v", n.Lines)
	}

	// and were persisted to the output file
	db, err := store.Open(out)
	if err != nil {
		t.Fatalf("Open output: %v", err)
	}
	defer db.Close()
	saved, err := db.Load()
	if err != nil {
		t.Fatalf("Load output: %v", err)
	}
	if len(saved.Generators) != 1 || len(saved.Lines) != 1 {
		t.Errorf("persisted network not sanitized: %+v", saved.ComputeStats())
	}
	if saved.Links[0].PNomMax != 5000 {
		t.Errorf("link ceiling = %v, want 5000", saved.Links[0].PNomMax)
	}

	// input file untouched
	src, err := store.Open(in)
	if err != nil {
		t.Fatalf("Open input: %v", err)
	}
	defer src.Close()
	orig, err := src.Load()
	if err != nil {
		t.Fatalf("Load input: %v", err)
	}
	if len(orig.Generators) != 3 {
		t.Errorf("input mutated: %d generators", len(orig.Generators))
	}
}

func TestSanitizeOnlyInPlace(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dirty.network.db")
	writeDirtyNetwork(t, in)

	if _, err := SanitizeOnly(RunConfig{
		NetworkPath: in,
		Config:      testConfig(),
		Log:         logging.Discard,
	}); err != nil {
		t.Fatalf("SanitizeOnly: %v", err)
	}

	db, err := store.Open(in)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	n, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(n.Generators) != 1 {
		t.Errorf("in-place sanitize not persisted: %d generators", len(n.Generators))
	}
}
