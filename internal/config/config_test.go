package config

import (
	"strings"
	"testing"
)

const fullConfig = `
lines:
  s_max_pu: 0.7
  s_nom_add: 20
  s_nom_factor: 1.5
links:
  p_nom_max: 5000
solving:
  options: Co2L-3h-lshed
  solver:
    time_limit: 600
    threads: 4
logging_level: INFO
log_file: /tmp/mend.log
solver_log_file: /tmp/highs.log
`

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Lines.SMaxPU != 0.7 || cfg.Lines.SNomAdd != 20 || cfg.Lines.SNomFactor != 1.5 {
		t.Errorf("lines = %+v", cfg.Lines)
	}
	if cfg.Links.PNomMax != 5000 {
		t.Errorf("p_nom_max = %v, want 5000", cfg.Links.PNomMax)
	}
	if cfg.Solving.Options != "Co2L-3h-lshed" {
		t.Errorf("solving.options = %q", cfg.Solving.Options)
	}
	if cfg.Solving.Solver.TimeLimit != 600 || cfg.Solving.Solver.Threads != 4 {
		t.Errorf("solver = %+v", cfg.Solving.Solver)
	}
	if cfg.LoggingLevel != "INFO" {
		t.Errorf("logging_level = %q", cfg.LoggingLevel)
	}
}

func TestPNomMaxCoercion(t *testing.T) {
	cases := []struct {
		yaml string
		want float64
	}{
		{`p_nom_max: 5000`, 5000},
		{`p_nom_max: 5000.5`, 5000.5},
		{`p_nom_max: "5000"`, 5000},
		{`p_nom_max: "1e4"`, 10000},
	}
	for _, c := range cases {
		doc := strings.Replace(fullConfig, "p_nom_max: 5000", c.yaml, 1)
		cfg, err := Parse([]byte(doc))
		if err != nil {
			t.Errorf("%s: %v", c.yaml, err)
			continue
		}
		if cfg.Links.PNomMax != c.want {
			t.Errorf("%s: got %v, want %v", c.yaml, cfg.Links.PNomMax, c.want)
		}
	}
}

func TestPNomMaxRejectsGarbage(t *testing.T) {
	doc := strings.Replace(fullConfig, "p_nom_max: 5000", `p_nom_max: "plenty"`, 1)
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected error for non-numeric p_nom_max")
	}
}

func TestMissingKeysFailFast(t *testing.T) {
	cases := []struct {
		remove string
		expect string
	}{
		{"  s_max_pu: 0.7\n", "lines.s_max_pu"},
		{"  s_nom_add: 20\n", "lines.s_nom_add"},
		{"  s_nom_factor: 1.5\n", "lines.s_nom_factor"},
		{"  p_nom_max: 5000\n", "links.p_nom_max"},
		{"  options: Co2L-3h-lshed\n", "solving.options"},
		{"logging_level: INFO\n", "logging_level"},
	}
	for _, c := range cases {
		doc := strings.Replace(fullConfig, c.remove, "", 1)
		_, err := Parse([]byte(doc))
		if err == nil {
			t.Errorf("removing %q: expected error", strings.TrimSpace(c.remove))
			continue
		}
		if !strings.Contains(err.Error(), c.expect) {
			t.Errorf("removing %q: error %q does not mention %s", strings.TrimSpace(c.remove), err, c.expect)
		}
	}
}

func TestAllProblemsReportedAtOnce(t *testing.T) {
	_, err := Parse([]byte("logging_level: INFO\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"lines", "links", "solving"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
