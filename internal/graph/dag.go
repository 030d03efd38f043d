package graph

// Vertex colors for the DFS used by TopologicalOrder, mirroring lvlath's
// dfs.topoSorter (white/gray/black).
const (
	white = 0
	gray  = 1
	black = 2
)

// TopologicalOrder returns a topological ordering of g's vertices (source
// first, sink last is not guaranteed beyond what edges require). It returns
// ErrUnsupportedGraph if g contains a cycle reachable from any vertex.
func TopologicalOrder(g *Graph) ([]int, error) {
	color := make([]byte, len(g.vertices))
	order := make([]int, 0, len(g.vertices))

	var visit func(id int) error
	visit = func(id int) error {
		switch color[id] {
		case gray:
			return ErrUnsupportedGraph
		case black:
			return nil
		}
		color[id] = gray
		for _, to := range g.vertices[id].out {
			if err := visit(to); err != nil {
				return err
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	for id := range g.vertices {
		if color[id] == white {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}

	// visit() builds a postorder; reversing it gives forward topological order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
