package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"voltmesh/mend/internal/network"
)

// ImportCSVDir builds a Network from a directory of per-table CSV dumps
// (buses.csv, generators.csv, ...), the interchange format the upstream
// model-building tooling emits. Missing files are treated as empty tables;
// a missing carriers.csv means the network has no carrier table.
func ImportCSVDir(dir string) (*network.Network, error) {
	n := &network.Network{}

	err := eachCSVRow(filepath.Join(dir, "buses.csv"), func(row csvRow) error {
		n.Buses = append(n.Buses, network.Bus{
			ID:      row.str("id"),
			Carrier: row.str("carrier"),
			VNom:    row.num("v_nom", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	err = eachCSVRow(filepath.Join(dir, "generators.csv"), func(row csvRow) error {
		n.Generators = append(n.Generators, network.Generator{
			ID:           row.str("id"),
			Bus:          row.str("bus"),
			Carrier:      row.str("carrier"),
			PNom:         row.num("p_nom", 0),
			PMaxPU:       row.num("p_max_pu", 1),
			MarginalCost: row.num("marginal_cost", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	err = eachCSVRow(filepath.Join(dir, "loads.csv"), func(row csvRow) error {
		n.Loads = append(n.Loads, network.Load{
			ID:      row.str("id"),
			Bus:     row.str("bus"),
			Carrier: row.str("carrier"),
			PSet:    row.num("p_set", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	err = eachCSVRow(filepath.Join(dir, "lines.csv"), func(row csvRow) error {
		n.Lines = append(n.Lines, network.Line{
			ID:             row.str("id"),
			Bus0:           row.str("bus0"),
			Bus1:           row.str("bus1"),
			SNom:           row.num("s_nom", 0),
			SMaxPU:         row.num("s_max_pu", 1),
			SNomMin:        row.num("s_nom_min", 0),
			SNomMax:        row.num("s_nom_max", 0),
			SNomExtendable: row.boolean("s_nom_extendable"),
			CapitalCost:    row.num("capital_cost", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	err = eachCSVRow(filepath.Join(dir, "links.csv"), func(row csvRow) error {
		n.Links = append(n.Links, network.Link{
			ID:             row.str("id"),
			Bus0:           row.str("bus0"),
			Bus1:           row.str("bus1"),
			PNom:           row.num("p_nom", 0),
			PNomMin:        row.num("p_nom_min", 0),
			PNomMax:        row.num("p_nom_max", 0),
			PMinPU:         row.num("p_min_pu", 0),
			Efficiency:     row.num("efficiency", 1),
			PNomExtendable: row.boolean("p_nom_extendable"),
			CapitalCost:    row.num("capital_cost", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	err = eachCSVRow(filepath.Join(dir, "storage_units.csv"), func(row csvRow) error {
		n.StorageUnits = append(n.StorageUnits, network.StorageUnit{
			ID:      row.str("id"),
			Bus:     row.str("bus"),
			Carrier: row.str("carrier"),
			PNom:    row.num("p_nom", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	err = eachCSVRow(filepath.Join(dir, "stores.csv"), func(row csvRow) error {
		n.Stores = append(n.Stores, network.Store{
			ID:      row.str("id"),
			Bus:     row.str("bus"),
			Carrier: row.str("carrier"),
			ENom:    row.num("e_nom", 0),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}

	carrierPath := filepath.Join(dir, "carriers.csv")
	if _, statErr := os.Stat(carrierPath); statErr == nil {
		n.Carriers = []network.Carrier{}
		err = eachCSVRow(carrierPath, func(row csvRow) error {
			n.Carriers = append(n.Carriers, network.Carrier{ID: row.str("id")})
			return row.err()
		})
		if err != nil {
			return nil, err
		}
	}

	return n, nil
}

// csvRow gives header-keyed access to one CSV record. Parse problems are
// sticky and surfaced through err() so callers report the first bad cell.
type csvRow struct {
	header map[string]int
	record []string
	bad    error
	file   string
	line   int
}

func (r *csvRow) str(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *csvRow) num(col string, def float64) float64 {
	s := r.str(col)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && r.bad == nil {
		r.bad = fmt.Errorf("%s line %d: column %q: %w", r.file, r.line, col, err)
	}
	return v
}

func (r *csvRow) boolean(col string) bool {
	switch strings.ToLower(r.str(col)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func (r *csvRow) err() error {
	return r.bad
}

func eachCSVRow(path string, fn func(csvRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	headerRec, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s header: %w", path, err)
	}
	header := make(map[string]int, len(headerRec))
	for i, name := range headerRec {
		header[strings.TrimSpace(name)] = i
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		line++
		if err := fn(csvRow{header: header, record: record, file: filepath.Base(path), line: line}); err != nil {
			return err
		}
	}
}
