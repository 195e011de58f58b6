// Package sanitize repairs a loaded network into the form the optimization
// stages accept: load-like generators become loads, carriers are reconciled,
// dangling references removed, component IDs made globally unique, and line
// and link capacity bounds frozen from configuration.
package sanitize

import (
	"fmt"
	"math"
	"sort"

	"voltmesh/mend/internal/config"
	"voltmesh/mend/internal/logging"
	"voltmesh/mend/internal/network"
)

// loadLikeCarriers mark generators that upstream sector-coupling emits where
// loads belong. Only plain "load" is converted; the other two are removed
// without conversion, matching upstream behavior exactly. See DESIGN.md:
// that removal may silently delete capacity and is flagged for review.
var loadLikeCarriers = map[string]bool{
	"load":         true,
	"H2 load":      true,
	"battery load": true,
}

// Sanitize mutates n in place through the seven repair passes, in a fixed
// order later passes depend on, and returns the same network. None of the
// passes fail on malformed-but-tabular input; the final consistency check is
// advisory and its failures are logged, never propagated.
func Sanitize(n *network.Network, lines config.LineOptions, links config.LinkOptions, log logging.Logger) *network.Network {
	convertLoadLikeGenerators(n, log)
	reconcileCarriers(n, log)
	dropDanglingGenerators(n, log)
	renameComponents(n)
	parameterizeLines(n, lines, log)
	parameterizeLinks(n, links)

	if err := n.ConsistencyCheck(); err != nil {
		log.Warn("network consistency issues", logging.Error(err))
	} else {
		log.Info("network passed consistency check")
	}

	return n
}

// Pass 1: partition out generators with load-like carriers. Generators with
// carrier exactly "load" become loads at the same bus (setpoint abs(p_nom))
// unless the bus already has one; every generator in the partition is removed
// afterwards whether converted or not.
func convertLoadLikeGenerators(n *network.Network, log logging.Logger) {
	found := 0
	for _, g := range n.Generators {
		if loadLikeCarriers[g.Carrier] {
			found++
		}
	}
	if found == 0 {
		return
	}
	log.Warn("found generators with load-like carriers", logging.Int("count", found))

	loaded := n.LoadedBuses()
	kept := n.Generators[:0]
	for _, g := range n.Generators {
		if !loadLikeCarriers[g.Carrier] {
			kept = append(kept, g)
			continue
		}
		switch g.Carrier {
		case "load":
			if !loaded[g.Bus] {
				n.Loads = append(n.Loads, network.Load{
					ID:   "converted_" + g.ID,
					Bus:  g.Bus,
					PSet: math.Abs(g.PNom),
				})
				loaded[g.Bus] = true
			}
		case "H2 load":
			// hydrogen coupling would be kept here; nothing implemented yet
		case "battery load":
			// usually handled by storage units
		}
	}
	n.Generators = kept
	log.Warn("removed load-like generators", logging.Int("count", found))
}

// Pass 2: every carrier referenced by a generator, load, storage unit, or
// store must exist in the carrier table. Skipped when the network has no
// carrier table at all.
func reconcileCarriers(n *network.Network, log logging.Logger) {
	if n.Carriers == nil {
		return
	}

	defined := n.CarrierSet()
	var missing []string
	for c := range n.UsedCarriers() {
		if !defined[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)

	for _, c := range missing {
		log.Info("adding missing carrier", logging.String("carrier", c))
		n.Carriers = append(n.Carriers, network.Carrier{ID: c})
	}
}

// Pass 3: drop generators whose bus reference does not resolve
func dropDanglingGenerators(n *network.Network, log logging.Logger) {
	if len(n.Generators) == 0 {
		return
	}

	buses := n.BusSet()
	kept := n.Generators[:0]
	for _, g := range n.Generators {
		if buses[g.Bus] {
			kept = append(kept, g)
		}
	}
	if removed := len(n.Generators) - len(kept); removed > 0 {
		log.Warn("removing generators with invalid buses", logging.Int("count", removed))
		n.Generators = kept
	}
}

// Pass 4: reassign line and link IDs from their current row positions, with
// per-type prefixes, so IDs are unique across the whole network regardless of
// what colliding names upstream sources produced.
func renameComponents(n *network.Network) {
	for i := range n.Lines {
		n.Lines[i].ID = fmt.Sprintf("LN%d", i)
	}
	for i := range n.Links {
		n.Links[i].ID = fmt.Sprintf("LK%d", i)
	}
}

// Pass 5: drop degenerate zero-capacity lines, then freeze the expansion
// bounds: s_nom_min at the as-built capacity and s_nom_max at the larger of
// an additive or multiplicative allowance, per line.
func parameterizeLines(n *network.Network, opts config.LineOptions, log logging.Logger) {
	if len(n.Lines) == 0 {
		return
	}

	kept := n.Lines[:0]
	for _, l := range n.Lines {
		if l.SNom != 0 {
			kept = append(kept, l)
		}
	}
	if dropped := len(n.Lines) - len(kept); dropped > 0 {
		log.Info("dropping zero-capacity lines", logging.Int("count", dropped))
	}
	n.Lines = kept

	for i := range n.Lines {
		l := &n.Lines[i]
		l.SMaxPU = opts.SMaxPU
		l.SNomMin = l.SNom
		l.SNomMax = math.Max(l.SNom+opts.SNomAdd, l.SNom*opts.SNomFactor)
	}
}

// Pass 6: freeze link bounds, with a uniform configured ceiling
func parameterizeLinks(n *network.Network, opts config.LinkOptions) {
	for i := range n.Links {
		l := &n.Links[i]
		l.PNomMin = l.PNom
		l.PNomMax = opts.PNomMax
	}
}
