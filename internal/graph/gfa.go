package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseGFA reads the GFA subset described by spec §6: S (segment) and L
// (link, "+","+", overlap) records. Path (P), header (H), containment (C),
// and walk (W) records are ignored; any other orientation, or a non-zero
// overlap, fails with ErrUnsupportedGraph. Node ids are assigned in order of
// first appearance as an S record; the graph is wrapped with synthetic
// source/sink vertices linked to every in-degree-0/out-degree-0 segment.
func ParseGFA(r io.Reader) (*Graph, error) {
	b := NewBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	seen := map[string]bool{}
	var segmentOrder []string

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "S":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: S record needs name and sequence: %q", ErrMalformedGFA, line)
			}
			name, seq := fields[1], fields[2]
			if seen[name] {
				return nil, fmt.Errorf("%w: duplicate segment name %q", ErrMalformedGFA, name)
			}
			seen[name] = true
			segmentOrder = append(segmentOrder, name)
			b.AddVertex(name, seq)
		case "L":
			if len(fields) < 6 {
				return nil, fmt.Errorf("%w: L record needs 5 fields: %q", ErrMalformedGFA, line)
			}
			from, fromOri, to, toOri, overlap := fields[1], fields[2], fields[3], fields[4], fields[5]
			if fromOri != "+" || toOri != "+" {
				return nil, fmt.Errorf("%w: orientation %q/%q", ErrUnsupportedGraph, fromOri, toOri)
			}
			if overlap != "0M" {
				return nil, fmt.Errorf("%w: non-zero overlap %q", ErrUnsupportedGraph, overlap)
			}
			fromID, ok := b.g.byName[from]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownVertex, from)
			}
			toID, ok := b.g.byName[to]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownVertex, to)
			}
			b.AddEdge(fromID, toID, 0)
		case "P", "H", "C", "W":
			continue
		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGFA, err)
	}
	if len(segmentOrder) == 0 {
		return nil, ErrEmptyGraph
	}

	// wrap: any segment with no in-edges hangs off source, any with no
	// out-edges feeds the sink.
	for _, name := range segmentOrder {
		id := b.g.byName[name]
		if len(b.g.vertices[id].in) == 0 {
			b.LinkToSource(id)
		}
	}
	for _, name := range segmentOrder {
		id := b.g.byName[name]
		if len(b.g.vertices[id].out) == 0 {
			b.LinkToSink(id)
		}
	}

	return b.Build()
}

// WriteGFA emits g in the subset format ParseGFA reads back: one S line per
// non-source/sink vertex (in id order) and one L line per edge that does not
// touch the synthetic source/sink vertices.
func WriteGFA(w io.Writer, g *Graph) error {
	for id := 0; id < g.NumVertices(); id++ {
		if id == g.Source() || id == g.Sink() {
			continue
		}
		if _, err := fmt.Fprintf(w, "S\t%s\t%s\n", g.Name(id), g.Label(id)); err != nil {
			return err
		}
	}
	for id := 0; id < g.NumVertices(); id++ {
		for _, to := range g.Successors(id) {
			if id == g.Source() || to == g.Sink() {
				continue
			}
			if _, err := fmt.Fprintf(w, "L\t%s\t+\t%s\t+\t0M\n", g.Name(id), g.Name(to)); err != nil {
				return err
			}
		}
	}
	return nil
}
