package network

import (
	"strings"
	"testing"
)

func twoBusNetwork() *Network {
	return &Network{
		Buses: []Bus{{ID: "B1"}, {ID: "B2"}},
		Generators: []Generator{
			{ID: "gen1", Bus: "B1", Carrier: "gas", PNom: 100, PMaxPU: 1},
		},
		Loads: []Load{
			{ID: "load1", Bus: "B2", PSet: 80},
		},
		Lines: []Line{
			{ID: "LN0", Bus0: "B1", Bus1: "B2", SNom: 100, SMaxPU: 1, SNomMin: 100, SNomMax: 150},
		},
		Carriers: []Carrier{{ID: "gas"}},
	}
}

func TestConsistencyCleanNetwork(t *testing.T) {
	if err := twoBusNetwork().ConsistencyCheck(); err != nil {
		t.Errorf("clean network should pass: %v", err)
	}
}

func TestConsistencyUnknownBus(t *testing.T) {
	n := twoBusNetwork()
	n.Generators = append(n.Generators, Generator{ID: "gen2", Bus: "nowhere", Carrier: "gas", PNom: 10, PMaxPU: 1})
	err := n.ConsistencyCheck()
	if err == nil {
		t.Fatal("expected error for unknown bus")
	}
	if !strings.Contains(err.Error(), "gen2") || !strings.Contains(err.Error(), "nowhere") {
		t.Errorf("error should name the offender: %v", err)
	}
}

func TestConsistencyDuplicateIDs(t *testing.T) {
	n := twoBusNetwork()
	n.Links = append(n.Links, Link{ID: "LN0", Bus0: "B1", Bus1: "B2", PNomMax: 10})
	err := n.ConsistencyCheck()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestConsistencyUndefinedCarrier(t *testing.T) {
	n := twoBusNetwork()
	n.Generators[0].Carrier = "hydrogen"
	err := n.ConsistencyCheck()
	if err == nil || !strings.Contains(err.Error(), "hydrogen") {
		t.Errorf("expected undefined carrier error, got %v", err)
	}

	// absent carrier table disables the check
	n.Carriers = nil
	if err := n.ConsistencyCheck(); err != nil {
		t.Errorf("no carrier table should skip the carrier check: %v", err)
	}
}

func TestConsistencyDisconnected(t *testing.T) {
	n := twoBusNetwork()
	n.Buses = append(n.Buses, Bus{ID: "island"})
	err := n.ConsistencyCheck()
	if err == nil || !strings.Contains(err.Error(), "disconnected") {
		t.Errorf("expected disconnected sub-network warning, got %v", err)
	}
}

func TestConnectedComponents(t *testing.T) {
	n := &Network{}
	if got := n.ConnectedComponents(); got != 0 {
		t.Errorf("empty network: got %d components, want 0", got)
	}

	n = &Network{
		Buses: []Bus{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		Lines: []Line{{ID: "LN0", Bus0: "A", Bus1: "B", SNom: 1}},
		Links: []Link{{ID: "LK0", Bus0: "C", Bus1: "D"}},
	}
	if got := n.ConnectedComponents(); got != 2 {
		t.Errorf("got %d components, want 2", got)
	}

	n.Links = append(n.Links, Link{ID: "LK1", Bus0: "B", Bus1: "C"})
	if got := n.ConnectedComponents(); got != 1 {
		t.Errorf("after bridging: got %d components, want 1", got)
	}
}

func TestUsedCarriersSkipsEmpty(t *testing.T) {
	n := &Network{
		Generators:   []Generator{{ID: "g", Carrier: "wind"}, {ID: "g2", Carrier: ""}},
		Loads:        []Load{{ID: "l", Carrier: "AC"}},
		StorageUnits: []StorageUnit{{ID: "s", Carrier: "battery"}},
		Stores:       []Store{{ID: "st", Carrier: ""}},
	}
	used := n.UsedCarriers()
	if len(used) != 3 {
		t.Fatalf("got %d carriers, want 3: %v", len(used), used)
	}
	for _, want := range []string{"wind", "AC", "battery"} {
		if !used[want] {
			t.Errorf("missing carrier %q", want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	n := twoBusNetwork()
	s := n.ComputeStats()
	if s.Buses != 2 || s.Generators != 1 || s.Loads != 1 || s.Lines != 1 {
		t.Errorf("counts wrong: %+v", s)
	}
	if s.TotalGeneration != 100 || s.TotalLoad != 80 {
		t.Errorf("totals wrong: gen=%v load=%v", s.TotalGeneration, s.TotalLoad)
	}
	if s.Components != 1 {
		t.Errorf("components = %d, want 1", s.Components)
	}
}
