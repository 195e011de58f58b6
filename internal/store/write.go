package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"voltmesh/mend/internal/network"
)

// Save replaces the file's contents with the given network, in one
// transaction. Tables are rewritten wholesale; the sanitizer renames and
// drops rows, so diffing against existing rows buys nothing.
func (d *DB) Save(n *network.Network) error {
	if err := d.Init(n.Carriers != nil); err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{"buses", "generators", "loads", "lines", "links", "storage_units", "stores"}
	if n.Carriers != nil {
		tables = append(tables, "carriers")
	}
	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, b := range n.Buses {
		if _, err := tx.Exec(`INSERT INTO buses (id, carrier, v_nom) VALUES (?, ?, ?)`,
			b.ID, b.Carrier, b.VNom); err != nil {
			return fmt.Errorf("writing bus %q: %w", b.ID, err)
		}
	}
	for _, g := range n.Generators {
		if _, err := tx.Exec(`INSERT INTO generators
			(id, bus, carrier, p_nom, p_max_pu, marginal_cost, p)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Bus, g.Carrier, g.PNom, g.PMaxPU, g.MarginalCost, g.P); err != nil {
			return fmt.Errorf("writing generator %q: %w", g.ID, err)
		}
	}
	for _, l := range n.Loads {
		if _, err := tx.Exec(`INSERT INTO loads (id, bus, carrier, p_set) VALUES (?, ?, ?, ?)`,
			l.ID, l.Bus, l.Carrier, l.PSet); err != nil {
			return fmt.Errorf("writing load %q: %w", l.ID, err)
		}
	}
	for _, l := range n.Lines {
		if _, err := tx.Exec(`INSERT INTO lines
			(id, bus0, bus1, s_nom, s_max_pu, s_nom_min, s_nom_max, s_nom_extendable, capital_cost, p, s_nom_opt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Bus0, l.Bus1, l.SNom, l.SMaxPU, l.SNomMin, l.SNomMax,
			l.SNomExtendable, l.CapitalCost, l.P, l.SNomOpt); err != nil {
			return fmt.Errorf("writing line %q: %w", l.ID, err)
		}
	}
	for _, l := range n.Links {
		if _, err := tx.Exec(`INSERT INTO links
			(id, bus0, bus1, p_nom, p_nom_min, p_nom_max, p_min_pu, efficiency, p_nom_extendable, capital_cost, p, p_nom_opt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Bus0, l.Bus1, l.PNom, l.PNomMin, l.PNomMax, l.PMinPU,
			l.Efficiency, l.PNomExtendable, l.CapitalCost, l.P, l.PNomOpt); err != nil {
			return fmt.Errorf("writing link %q: %w", l.ID, err)
		}
	}
	for _, s := range n.StorageUnits {
		if _, err := tx.Exec(`INSERT INTO storage_units (id, bus, carrier, p_nom) VALUES (?, ?, ?, ?)`,
			s.ID, s.Bus, s.Carrier, s.PNom); err != nil {
			return fmt.Errorf("writing storage unit %q: %w", s.ID, err)
		}
	}
	for _, s := range n.Stores {
		if _, err := tx.Exec(`INSERT INTO stores (id, bus, carrier, e_nom) VALUES (?, ?, ?, ?)`,
			s.ID, s.Bus, s.Carrier, s.ENom); err != nil {
			return fmt.Errorf("writing store %q: %w", s.ID, err)
		}
	}
	for _, c := range n.Carriers {
		if _, err := tx.Exec(`INSERT INTO carriers (id) VALUES (?)`, c.ID); err != nil {
			return fmt.Errorf("writing carrier %q: %w", c.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO run_meta (key, value) VALUES ('objective', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.FormatFloat(n.Objective, 'g', -1, 64)); err != nil {
		return fmt.Errorf("writing objective: %w", err)
	}

	return tx.Commit()
}

// SetMeta records a run metadata key, e.g. the run ID of the solve that
// produced the file's solution columns.
func (d *DB) SetMeta(key, value string) error {
	_, err := d.conn.Exec(`INSERT INTO run_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing run_meta %q: %w", key, err)
	}
	return nil
}

// GetMeta returns a run metadata value, or "" when the key is absent
func (d *DB) GetMeta(key string) (string, error) {
	row := d.conn.QueryRow(`SELECT value FROM run_meta WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("reading run_meta %q: %w", key, err)
	}
	return value, nil
}

// SaveTo writes the network to a new file at path
func SaveTo(n *network.Network, path string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Save(n)
}
