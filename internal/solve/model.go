// Package solve builds and solves the linear dispatch and expansion problem
// for a sanitized network: generator dispatch at marginal cost, line and link
// flows within capacity, nodal balance per bus, and capacity variables for
// extendable branches priced at capital cost within the bounds the sanitizer
// froze (s_nom_min..s_nom_max, p_nom_min..p_nom_max).
package solve

import (
	"fmt"
	"math"

	"github.com/bartolsthoorn/gohighs/highs"

	"voltmesh/mend/internal/network"
)

// Problem is a built optimization model plus the column bookkeeping needed to
// map the solution back onto network components.
type Problem struct {
	model *highs.Model

	genCols  []int
	lineFlow []int
	lineCap  []int // -1 for non-extendable lines
	linkFlow []int
	linkCap  []int // -1 for non-extendable links

	balanceRows int
}

// Build constructs the single-period model for n. The network must already
// be sanitized; Build trusts bus references and capacity bounds.
func Build(n *network.Network) (*Problem, error) {
	if len(n.Buses) == 0 {
		return nil, fmt.Errorf("network has no buses")
	}

	p := &Problem{model: &highs.Model{}}
	inf := math.Inf(1)

	addCol := func(cost, lower, upper float64) int {
		p.model.ColCosts = append(p.model.ColCosts, cost)
		p.model.ColLower = append(p.model.ColLower, lower)
		p.model.ColUpper = append(p.model.ColUpper, upper)
		return len(p.model.ColCosts) - 1
	}

	// injection accumulates balance-row coefficients per bus
	type term struct {
		col int
		val float64
	}
	injection := make(map[string][]term, len(n.Buses))

	for _, g := range n.Generators {
		col := addCol(g.MarginalCost, 0, g.PNom*g.PMaxPU)
		p.genCols = append(p.genCols, col)
		injection[g.Bus] = append(injection[g.Bus], term{col, 1})
	}

	for _, l := range n.Lines {
		var flow int
		capCol := -1
		if l.SNomExtendable {
			flow = addCol(0, -l.SNomMax*l.SMaxPU, l.SNomMax*l.SMaxPU)
			capCol = addCol(l.CapitalCost, l.SNomMin, l.SNomMax)
			// |flow| <= s_max_pu * capacity
			p.model.AddSparseRow(-inf, []int{flow, capCol}, []float64{1, -l.SMaxPU}, 0)
			p.model.AddSparseRow(0, []int{flow, capCol}, []float64{1, l.SMaxPU}, inf)
		} else {
			limit := l.SNom * l.SMaxPU
			flow = addCol(0, -limit, limit)
		}
		p.lineFlow = append(p.lineFlow, flow)
		p.lineCap = append(p.lineCap, capCol)
		injection[l.Bus0] = append(injection[l.Bus0], term{flow, -1})
		injection[l.Bus1] = append(injection[l.Bus1], term{flow, 1})
	}

	for _, l := range n.Links {
		eff := l.Efficiency
		if eff == 0 {
			eff = 1
		}
		var flow int
		capCol := -1
		if l.PNomExtendable {
			lower := math.Min(0, l.PMinPU*l.PNomMax)
			flow = addCol(0, lower, l.PNomMax)
			capCol = addCol(l.CapitalCost, l.PNomMin, l.PNomMax)
			// flow within [p_min_pu, 1] of the chosen capacity
			p.model.AddSparseRow(-inf, []int{flow, capCol}, []float64{1, -1}, 0)
			p.model.AddSparseRow(0, []int{flow, capCol}, []float64{1, -l.PMinPU}, inf)
		} else {
			flow = addCol(0, l.PMinPU*l.PNom, l.PNom)
		}
		p.linkFlow = append(p.linkFlow, flow)
		p.linkCap = append(p.linkCap, capCol)
		injection[l.Bus0] = append(injection[l.Bus0], term{flow, -1})
		injection[l.Bus1] = append(injection[l.Bus1], term{flow, eff})
	}

	// nodal balance: injections equal the load setpoint at every bus
	for _, b := range n.Buses {
		terms := injection[b.ID]
		load := n.TotalLoadAt(b.ID)
		cols := make([]int, len(terms))
		vals := make([]float64, len(terms))
		for i, t := range terms {
			cols[i] = t.col
			vals[i] = t.val
		}
		p.model.AddSparseRow(load, cols, vals, load)
		p.balanceRows++
	}

	return p, nil
}

// apply maps the solution back onto the network
func (p *Problem) apply(n *network.Network, sol *highs.Solution) {
	for i := range n.Generators {
		n.Generators[i].P = sol.Value(p.genCols[i])
	}
	for i := range n.Lines {
		n.Lines[i].P = sol.Value(p.lineFlow[i])
		if p.lineCap[i] >= 0 {
			n.Lines[i].SNomOpt = sol.Value(p.lineCap[i])
		} else {
			n.Lines[i].SNomOpt = n.Lines[i].SNom
		}
	}
	for i := range n.Links {
		n.Links[i].P = sol.Value(p.linkFlow[i])
		if p.linkCap[i] >= 0 {
			n.Links[i].PNomOpt = sol.Value(p.linkCap[i])
		} else {
			n.Links[i].PNomOpt = n.Links[i].PNom
		}
	}
	n.Objective = sol.Objective
}
