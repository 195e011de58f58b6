package network

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ConsistencyCheck verifies the structural integrity of the whole network:
// every bus reference resolves, IDs are unique, referenced carriers exist
// (when the carrier table is present), capacity parameters are sane, and the
// network forms a single electrically connected component. The result is
// advisory; callers decide whether a failure is fatal.
func (n *Network) ConsistencyCheck() error {
	var issues []string

	buses := n.BusSet()
	report := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	seen := make(map[string]string)
	unique := func(table, id string) {
		if prev, ok := seen[id]; ok {
			report("duplicate id %q in %s (also in %s)", id, table, prev)
			return
		}
		seen[id] = table
	}
	for _, b := range n.Buses {
		unique("buses", b.ID)
	}

	checkBus := func(table, id, bus string) {
		if !buses[bus] {
			report("%s %q references unknown bus %q", table, id, bus)
		}
	}

	for _, g := range n.Generators {
		unique("generators", g.ID)
		checkBus("generator", g.ID, g.Bus)
		if g.PNom < 0 {
			report("generator %q has negative p_nom %v", g.ID, g.PNom)
		}
		if math.IsNaN(g.PNom) || math.IsNaN(g.MarginalCost) {
			report("generator %q has NaN parameters", g.ID)
		}
	}
	for _, l := range n.Loads {
		unique("loads", l.ID)
		checkBus("load", l.ID, l.Bus)
		if math.IsNaN(l.PSet) {
			report("load %q has NaN p_set", l.ID)
		}
	}
	for _, s := range n.StorageUnits {
		unique("storage_units", s.ID)
		checkBus("storage unit", s.ID, s.Bus)
	}
	for _, s := range n.Stores {
		unique("stores", s.ID)
		checkBus("store", s.ID, s.Bus)
	}
	for _, l := range n.Lines {
		unique("lines", l.ID)
		checkBus("line", l.ID, l.Bus0)
		checkBus("line", l.ID, l.Bus1)
		if l.SNom < 0 {
			report("line %q has negative s_nom %v", l.ID, l.SNom)
		}
		if l.SNomMax < l.SNomMin {
			report("line %q has s_nom_max %v below s_nom_min %v", l.ID, l.SNomMax, l.SNomMin)
		}
	}
	for _, l := range n.Links {
		unique("links", l.ID)
		checkBus("link", l.ID, l.Bus0)
		checkBus("link", l.ID, l.Bus1)
		if l.PNomMax < l.PNomMin {
			report("link %q has p_nom_max %v below p_nom_min %v", l.ID, l.PNomMax, l.PNomMin)
		}
	}

	if n.Carriers != nil {
		defined := n.CarrierSet()
		for c := range n.UsedCarriers() {
			if !defined[c] {
				report("carrier %q is used but not defined", c)
			}
		}
	}

	if comps := n.ConnectedComponents(); comps > 1 {
		report("network has %d disconnected sub-networks", comps)
	}

	if len(issues) == 0 {
		return nil
	}
	return errors.New(strings.Join(issues, "; "))
}

// ConnectedComponents returns the number of electrically connected bus groups.
// Components attached through lines or links count as connected; buses with
// no connections are their own component. Zero buses means zero components.
func (n *Network) ConnectedComponents() int {
	if len(n.Buses) == 0 {
		return 0
	}
	ids := make([]string, len(n.Buses))
	for i, b := range n.Buses {
		ids[i] = b.ID
	}
	uf := newUnionFind(ids)
	buses := n.BusSet()
	for _, l := range n.Lines {
		if buses[l.Bus0] && buses[l.Bus1] {
			uf.union(l.Bus0, l.Bus1)
		}
	}
	for _, l := range n.Links {
		if buses[l.Bus0] && buses[l.Bus1] {
			uf.union(l.Bus0, l.Bus1)
		}
	}
	return uf.components()
}
