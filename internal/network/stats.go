package network

// Stats summarizes table sizes and connectivity for logging and inspection
type Stats struct {
	Buses        int `json:"buses"`
	Generators   int `json:"generators"`
	Loads        int `json:"loads"`
	Lines        int `json:"lines"`
	Links        int `json:"links"`
	StorageUnits int `json:"storage_units"`
	Stores       int `json:"stores"`
	Carriers     int `json:"carriers"`
	Components   int `json:"components"`

	TotalGeneration float64 `json:"total_generation_capacity"`
	TotalLoad       float64 `json:"total_load"`
}

// ComputeStats builds a Stats report for the network as it currently stands
func (n *Network) ComputeStats() Stats {
	s := Stats{
		Buses:        len(n.Buses),
		Generators:   len(n.Generators),
		Loads:        len(n.Loads),
		Lines:        len(n.Lines),
		Links:        len(n.Links),
		StorageUnits: len(n.StorageUnits),
		Stores:       len(n.Stores),
		Carriers:     len(n.Carriers),
		Components:   n.ConnectedComponents(),
	}
	for _, g := range n.Generators {
		s.TotalGeneration += g.PNom
	}
	for _, l := range n.Loads {
		s.TotalLoad += l.PSet
	}
	return s
}
