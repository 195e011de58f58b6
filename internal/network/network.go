// Package network holds the in-memory power-system network: one ordered table
// per component kind, rows keyed by unique string IDs, with the structural
// checks the rest of the pipeline relies on. The network has a single owner
// per pipeline stage; nothing here is safe for concurrent mutation.
package network

// Bus is an electrical node components attach to
type Bus struct {
	ID      string
	Carrier string
	VNom    float64
}

// Generator injects power at a bus. PMaxPU is the per-unit availability
// limit in [0, 1]; effective capacity is PNom * PMaxPU.
type Generator struct {
	ID           string
	Bus          string
	Carrier      string
	PNom         float64
	PMaxPU       float64
	MarginalCost float64
	P            float64 // dispatch result, set by the solve stage
}

// Load withdraws power at a bus
type Load struct {
	ID      string
	Bus     string
	Carrier string
	PSet    float64
}

// Line is an AC transmission connection between two buses
type Line struct {
	ID             string
	Bus0           string
	Bus1           string
	SNom           float64
	SMaxPU         float64
	SNomMin        float64
	SNomMax        float64
	SNomExtendable bool
	CapitalCost    float64
	P              float64 // flow result, bus0 -> bus1
	SNomOpt        float64 // optimal capacity, set by the solve stage
}

// Link is a controllable connection between two buses
type Link struct {
	ID             string
	Bus0           string
	Bus1           string
	PNom           float64
	PNomMin        float64
	PNomMax        float64
	PMinPU         float64
	Efficiency     float64
	PNomExtendable bool
	CapitalCost    float64
	P              float64
	PNomOpt        float64
}

// StorageUnit is a power-constrained storage component
type StorageUnit struct {
	ID      string
	Bus     string
	Carrier string
	PNom    float64
}

// Store is an energy-constrained storage component
type Store struct {
	ID      string
	Bus     string
	Carrier string
	ENom    float64
}

// Carrier is an energy-type category label
type Carrier struct {
	ID string
}

// Network is the full table bundle. Carriers == nil means the network has no
// carrier table at all, which is distinct from an empty one.
type Network struct {
	Buses        []Bus
	Generators   []Generator
	Loads        []Load
	Lines        []Line
	Links        []Link
	StorageUnits []StorageUnit
	Stores       []Store
	Carriers     []Carrier

	Objective float64 // objective value of the last solve
}

// BusSet returns the set of bus IDs
func (n *Network) BusSet() map[string]bool {
	set := make(map[string]bool, len(n.Buses))
	for _, b := range n.Buses {
		set[b.ID] = true
	}
	return set
}

// CarrierSet returns the set of carrier IDs, empty when the table is absent
func (n *Network) CarrierSet() map[string]bool {
	set := make(map[string]bool, len(n.Carriers))
	for _, c := range n.Carriers {
		set[c.ID] = true
	}
	return set
}

// UsedCarriers returns the distinct non-empty carrier values referenced by
// generators, loads, storage units, and stores.
func (n *Network) UsedCarriers() map[string]bool {
	used := make(map[string]bool)
	for _, g := range n.Generators {
		if g.Carrier != "" {
			used[g.Carrier] = true
		}
	}
	for _, l := range n.Loads {
		if l.Carrier != "" {
			used[l.Carrier] = true
		}
	}
	for _, s := range n.StorageUnits {
		if s.Carrier != "" {
			used[s.Carrier] = true
		}
	}
	for _, s := range n.Stores {
		if s.Carrier != "" {
			used[s.Carrier] = true
		}
	}
	return used
}

// LoadedBuses returns the set of bus IDs that have at least one load attached
func (n *Network) LoadedBuses() map[string]bool {
	set := make(map[string]bool)
	for _, l := range n.Loads {
		set[l.Bus] = true
	}
	return set
}

// TotalLoadAt sums the setpoints of all loads at the given bus
func (n *Network) TotalLoadAt(bus string) float64 {
	var total float64
	for _, l := range n.Loads {
		if l.Bus == bus {
			total += l.PSet
		}
	}
	return total
}
