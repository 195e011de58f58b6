package store

import (
	"fmt"
	"strconv"

	"voltmesh/mend/internal/network"
)

// Load reads every component table into a fresh Network. A missing carrier
// table yields Carriers == nil; an existing but empty one yields a non-nil
// empty slice.
func (d *DB) Load() (*network.Network, error) {
	n := &network.Network{}

	rows, err := d.conn.Query(`SELECT id, carrier, v_nom FROM buses ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading buses: %w", err)
	}
	for rows.Next() {
		var b network.Bus
		if err := rows.Scan(&b.ID, &b.Carrier, &b.VNom); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning bus: %w", err)
		}
		n.Buses = append(n.Buses, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.conn.Query(
		`SELECT id, bus, carrier, p_nom, p_max_pu, marginal_cost, p FROM generators ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading generators: %w", err)
	}
	for rows.Next() {
		var g network.Generator
		if err := rows.Scan(&g.ID, &g.Bus, &g.Carrier, &g.PNom, &g.PMaxPU, &g.MarginalCost, &g.P); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning generator: %w", err)
		}
		n.Generators = append(n.Generators, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.conn.Query(`SELECT id, bus, carrier, p_set FROM loads ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading loads: %w", err)
	}
	for rows.Next() {
		var l network.Load
		if err := rows.Scan(&l.ID, &l.Bus, &l.Carrier, &l.PSet); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning load: %w", err)
		}
		n.Loads = append(n.Loads, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.conn.Query(`SELECT id, bus0, bus1, s_nom, s_max_pu, s_nom_min, s_nom_max,
		s_nom_extendable, capital_cost, p, s_nom_opt FROM lines ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	for rows.Next() {
		var l network.Line
		if err := rows.Scan(&l.ID, &l.Bus0, &l.Bus1, &l.SNom, &l.SMaxPU, &l.SNomMin,
			&l.SNomMax, &l.SNomExtendable, &l.CapitalCost, &l.P, &l.SNomOpt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		n.Lines = append(n.Lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.conn.Query(`SELECT id, bus0, bus1, p_nom, p_nom_min, p_nom_max, p_min_pu,
		efficiency, p_nom_extendable, capital_cost, p, p_nom_opt FROM links ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading links: %w", err)
	}
	for rows.Next() {
		var l network.Link
		if err := rows.Scan(&l.ID, &l.Bus0, &l.Bus1, &l.PNom, &l.PNomMin, &l.PNomMax,
			&l.PMinPU, &l.Efficiency, &l.PNomExtendable, &l.CapitalCost, &l.P, &l.PNomOpt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		n.Links = append(n.Links, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.conn.Query(`SELECT id, bus, carrier, p_nom FROM storage_units ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading storage units: %w", err)
	}
	for rows.Next() {
		var s network.StorageUnit
		if err := rows.Scan(&s.ID, &s.Bus, &s.Carrier, &s.PNom); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning storage unit: %w", err)
		}
		n.StorageUnits = append(n.StorageUnits, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.conn.Query(`SELECT id, bus, carrier, e_nom FROM stores ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading stores: %w", err)
	}
	for rows.Next() {
		var s network.Store
		if err := rows.Scan(&s.ID, &s.Bus, &s.Carrier, &s.ENom); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning store: %w", err)
		}
		n.Stores = append(n.Stores, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasCarriers, err := d.hasTable("carriers")
	if err != nil {
		return nil, fmt.Errorf("checking carrier table: %w", err)
	}
	if hasCarriers {
		n.Carriers = []network.Carrier{}
		rows, err = d.conn.Query(`SELECT id FROM carriers ORDER BY rowid`)
		if err != nil {
			return nil, fmt.Errorf("reading carriers: %w", err)
		}
		for rows.Next() {
			var c network.Carrier
			if err := rows.Scan(&c.ID); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning carrier: %w", err)
			}
			n.Carriers = append(n.Carriers, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if hasMeta, err := d.hasTable("run_meta"); err == nil && hasMeta {
		if v, err := d.GetMeta("objective"); err == nil && v != "" {
			if obj, perr := strconv.ParseFloat(v, 64); perr == nil {
				n.Objective = obj
			}
		}
	}

	return n, nil
}
