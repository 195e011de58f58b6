package sanitize

import (
	"reflect"
	"testing"
)

func TestFilterOpts(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Co2L-3h-lshed", []string{"Co2L", "lshed"}},
		{"168H-noisy", []string{"noisy"}},
		{"3h", nil},
		{"", nil},
		{"Co2L--lshed", []string{"Co2L", "lshed"}},
		{"24hr-lshed", []string{"24hr", "lshed"}}, // "hr" is not a resolution token
		{"h3-lshed", []string{"h3", "lshed"}},
	}
	for _, c := range cases {
		got := FilterOpts(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("FilterOpts(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
