package tree

import "strings"

// Filter returns an ancestor-preserving filtered view of the forest.
//
// A node is retained if its own name contains the query (case-insensitive)
// or any node in its subtree matches; retained nodes keep only their
// retained children, never reordered. An empty (or all-whitespace) query
// returns the input forest itself, unchanged; a query matching nothing
// returns an empty forest.
//
// The input forest is never mutated. Filtering holds no state: each call
// is independent, so filtering an already-filtered forest with the same
// query yields the same result.
func Filter(f *Forest, query string) *Forest {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return f
	}

	out := New()
	for _, id := range f.roots {
		if filterInto(f, out, id, q) {
			out.roots = append(out.roots, id)
		}
	}
	return out
}

// filterInto copies the retained part of the subtree rooted at id into dst.
// Returns false if neither the node nor any descendant matches.
func filterInto(src, dst *Forest, id, q string) bool {
	n, ok := src.nodes[id]
	if !ok {
		return false
	}

	var kept []string
	for _, cid := range n.Children {
		if filterInto(src, dst, cid, q) {
			kept = append(kept, cid)
		}
	}

	if len(kept) == 0 && !strings.Contains(strings.ToLower(n.Name), q) {
		return false
	}

	c := n.Clone()
	c.Children = kept
	dst.nodes[id] = c
	return true
}
