// Package prepare applies the solve-option tokens to a sanitized network
// before the optimization model is built.
package prepare

import (
	"fmt"

	"voltmesh/mend/internal/logging"
	"voltmesh/mend/internal/network"
)

const (
	// shedCost prices involuntary load shedding far above any generator so
	// the solver only sheds when the network truly cannot serve the load.
	shedCost = 1e4

	// clipFloor is the per-unit availability below which a generator is
	// treated as unavailable under the "clip" option.
	clipFloor = 1e-2

	shedCarrier = "load shedding"
)

// Prepare mutates n according to the recognized option tokens and returns it.
// Unknown tokens are logged and ignored; the token list is expected to be
// pre-filtered of time-resolution wildcards.
func Prepare(n *network.Network, opts []string, log logging.Logger) *network.Network {
	for _, opt := range opts {
		switch opt {
		case "lshed":
			addLoadShedding(n, log)
		case "noisy":
			addNoisyCosts(n, log)
		case "clip":
			clipAvailability(n, log)
		default:
			log.Info("ignoring unrecognized solve option", logging.String("option", opt))
		}
	}
	return n
}

// addLoadShedding attaches a high-cost shedding generator to every bus that
// carries load, sized to cover the full setpoint there. Re-running is a
// no-op: buses that already have a shedding generator are skipped.
func addLoadShedding(n *network.Network, log logging.Logger) {
	shedded := make(map[string]bool)
	for _, g := range n.Generators {
		if g.Carrier == shedCarrier {
			shedded[g.Bus] = true
		}
	}

	added := 0
	for bus := range n.LoadedBuses() {
		if shedded[bus] {
			continue
		}
		total := n.TotalLoadAt(bus)
		if total <= 0 {
			continue
		}
		n.Generators = append(n.Generators, network.Generator{
			ID:           fmt.Sprintf("shed_%s", bus),
			Bus:          bus,
			Carrier:      shedCarrier,
			PNom:         total,
			PMaxPU:       1,
			MarginalCost: shedCost,
		})
		added++
	}
	if added > 0 {
		if n.Carriers != nil && !n.CarrierSet()[shedCarrier] {
			n.Carriers = append(n.Carriers, network.Carrier{ID: shedCarrier})
		}
		log.Info("added load-shedding generators", logging.Int("count", added))
	}
}

// addNoisyCosts perturbs marginal costs by a tiny position-dependent epsilon
// to break degeneracy between identical generators. Deterministic, so
// repeated runs produce identical models.
func addNoisyCosts(n *network.Network, log logging.Logger) {
	for i := range n.Generators {
		n.Generators[i].MarginalCost += 1e-4 * float64(i+1)
	}
	log.Info("applied noisy cost perturbation", logging.Int("generators", len(n.Generators)))
}

// clipAvailability zeroes availabilities too small to matter; near-zero
// p_max_pu values produce badly scaled columns.
func clipAvailability(n *network.Network, log logging.Logger) {
	clipped := 0
	for i := range n.Generators {
		if pu := n.Generators[i].PMaxPU; pu > 0 && pu < clipFloor {
			n.Generators[i].PMaxPU = 0
			clipped++
		}
	}
	if clipped > 0 {
		log.Info("clipped tiny availabilities", logging.Int("count", clipped))
	}
}
