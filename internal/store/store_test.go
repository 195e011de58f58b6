package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"voltmesh/mend/internal/network"
)

func sampleNetwork() *network.Network {
	return &network.Network{
		Buses: []network.Bus{{ID: "B1", Carrier: "AC", VNom: 380}, {ID: "B2", Carrier: "AC", VNom: 380}},
		Generators: []network.Generator{
			{ID: "gen1", Bus: "B1", Carrier: "gas", PNom: 100, PMaxPU: 1, MarginalCost: 50},
		},
		Loads: []network.Load{{ID: "load1", Bus: "B2", PSet: 80}},
		Lines: []network.Line{
			{ID: "LN0", Bus0: "B1", Bus1: "B2", SNom: 120, SMaxPU: 0.7, SNomMin: 120, SNomMax: 180},
		},
		Links: []network.Link{
			{ID: "LK0", Bus0: "B1", Bus1: "B2", PNom: 40, PNomMin: 40, PNomMax: 5000, Efficiency: 0.95},
		},
		StorageUnits: []network.StorageUnit{{ID: "su1", Bus: "B1", Carrier: "battery", PNom: 10}},
		Stores:       []network.Store{{ID: "st1", Bus: "B2", Carrier: "H2", ENom: 200}},
		Carriers:     []network.Carrier{{ID: "gas"}, {ID: "battery"}, {ID: "H2"}},
		Objective:    1234.5,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.network.db")
	want := sampleNetwork()
	if err := SaveTo(want, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadWithoutCarrierTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nocarriers.network.db")
	n := sampleNetwork()
	n.Carriers = nil
	if err := SaveTo(n, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Carriers != nil {
		t.Errorf("expected nil carrier table, got %v", got.Carriers)
	}
}

func TestRunMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.network.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if v, err := db.GetMeta("run_id"); err != nil || v != "" {
		t.Errorf("absent key: got %q, %v", v, err)
	}
	if err := db.SetMeta("run_id", "abc123"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if err := db.SetMeta("run_id", "def456"); err != nil {
		t.Fatalf("SetMeta overwrite: %v", err)
	}
	v, err := db.GetMeta("run_id")
	if err != nil || v != "def456" {
		t.Errorf("got %q, %v; want def456", v, err)
	}
}

func TestImportCSVDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"buses.csv":      "id,carrier,v_nom\nB1,AC,380\nB2,AC,380\n",
		"generators.csv": "id,bus,carrier,p_nom,marginal_cost\ngen1,B1,gas,100,50\n",
		"loads.csv":      "id,bus,p_set\nload1,B2,80\n",
		"lines.csv":      "id,bus0,bus1,s_nom\n7,B1,B2,120\n",
		"carriers.csv":   "id\ngas\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ImportCSVDir(dir)
	if err != nil {
		t.Fatalf("ImportCSVDir: %v", err)
	}
	if len(n.Buses) != 2 || len(n.Generators) != 1 || len(n.Loads) != 1 || len(n.Lines) != 1 {
		t.Errorf("counts wrong: %+v", n.ComputeStats())
	}
	if n.Generators[0].PMaxPU != 1 {
		t.Errorf("p_max_pu default = %v, want 1", n.Generators[0].PMaxPU)
	}
	if n.Lines[0].SMaxPU != 1 {
		t.Errorf("s_max_pu default = %v, want 1", n.Lines[0].SMaxPU)
	}
	if len(n.Links) != 0 || n.Links != nil {
		t.Errorf("missing links.csv should mean empty table")
	}
	if n.Carriers == nil || len(n.Carriers) != 1 {
		t.Errorf("carriers = %v", n.Carriers)
	}
	if n.Stores != nil {
		t.Errorf("missing stores.csv should leave table empty, got %v", n.Stores)
	}
}

func TestImportCSVDirBadNumber(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "buses.csv"),
		[]byte("id,v_nom\nB1,lots\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportCSVDir(dir); err == nil {
		t.Fatal("expected parse error for non-numeric v_nom")
	}
}
