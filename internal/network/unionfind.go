package network

// unionFind tracks bus connectivity with path compression and union by rank
type unionFind struct {
	parent map[string]string
	rank   map[string]int
	count  int
}

func newUnionFind(ids []string) *unionFind {
	uf := &unionFind{
		parent: make(map[string]string, len(ids)),
		rank:   make(map[string]int, len(ids)),
		count:  len(ids),
	}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (uf *unionFind) find(id string) string {
	parent, ok := uf.parent[id]
	if !ok {
		return id
	}
	if parent != id {
		root := uf.find(parent)
		uf.parent[id] = root
		return root
	}
	return id
}

// union merges the components containing a and b. Returns true if they were separate.
func (uf *unionFind) union(a, b string) bool {
	rootA := uf.find(a)
	rootB := uf.find(b)
	if rootA == rootB {
		return false
	}

	switch {
	case uf.rank[rootA] < uf.rank[rootB]:
		uf.parent[rootA] = rootB
	case uf.rank[rootA] > uf.rank[rootB]:
		uf.parent[rootB] = rootA
	default:
		uf.parent[rootB] = rootA
		uf.rank[rootA]++
	}
	uf.count--
	return true
}

// components returns the number of connected components
func (uf *unionFind) components() int {
	return uf.count
}
