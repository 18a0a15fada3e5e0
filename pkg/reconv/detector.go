package reconv

import (
	"github.com/ranaumarnadeem/opentestability/pkg/dag"
)

// detector holds the read-only state shared by all site evaluations.
type detector struct {
	g        *dag.DAG
	maxDepth int
	pos      map[string]int
	fanout   map[string]bool
	sites    []string
}

func newDetector(g *dag.DAG, maxDepth int) *detector {
	ids := g.NodeIDs()
	d := &detector{
		g:        g,
		maxDepth: maxDepth,
		pos:      dag.PosMap(ids),
		fanout:   make(map[string]bool),
	}
	for _, id := range ids {
		if g.OutDegree(id) > 1 {
			d.fanout[id] = true
		}
		if g.InDegree(id) > 1 {
			d.sites = append(d.sites, id)
		}
	}
	return d
}

// evaluate returns every record for one candidate site.
func (d *detector) evaluate(site string) []Site {
	origins := d.origins(site)
	var out []Site

	// Stem reconvergence: two branches of one fan-out point.
	for _, a := range origins {
		branches := d.g.Children(a)
		paths := make([][]string, len(branches))
		for i, b := range branches {
			if p := d.shortestPath(b, site, d.maxDepth-1); p != nil {
				paths[i] = append([]string{a}, p...)
			}
		}
		for i := 0; i < len(branches); i++ {
			for j := i + 1; j < len(branches); j++ {
				if paths[i] == nil || paths[j] == nil {
					continue
				}
				if disjoint(paths[i], paths[j], a, a, site) {
					out = append(out, Site{
						Kind: KindStem, Site: site,
						Origin1: a, Origin2: a,
						Path1: paths[i], Path2: paths[j],
					})
				}
			}
		}
	}

	// Pair reconvergence: two distinct fan-out points.
	paths := make([][]string, len(origins))
	for i, a := range origins {
		paths[i] = d.shortestPath(a, site, d.maxDepth)
	}
	for i := 0; i < len(origins); i++ {
		for j := i + 1; j < len(origins); j++ {
			if paths[i] == nil || paths[j] == nil {
				continue
			}
			a, b := origins[i], origins[j]
			// b may lie on a's path; disjoint ignores both origins.
			if disjoint(paths[i], paths[j], a, b, site) {
				out = append(out, Site{
					Kind: KindPair, Site: site,
					Origin1: a, Origin2: b,
					Path1: paths[i], Path2: paths[j],
				})
			}
		}
	}
	return out
}

// origins returns the fan-out points within maxDepth edges upstream of
// site, in node order.
func (d *detector) origins(site string) []string {
	depth := map[string]int{site: 0}
	queue := []string{site}
	var found []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if depth[cur] == d.maxDepth {
			continue
		}
		for _, p := range d.g.Parents(cur) {
			if _, seen := depth[p]; seen {
				continue
			}
			depth[p] = depth[cur] + 1
			queue = append(queue, p)
			if d.fanout[p] {
				found = append(found, p)
			}
		}
	}
	sortByPos(found, d.pos)
	return found
}

// shortestPath returns a shortest path from→to with at most limit edges,
// or nil. Ties are broken by child order, so the result is deterministic.
func (d *detector) shortestPath(from, to string, limit int) []string {
	if from == to {
		return []string{to}
	}
	if limit <= 0 {
		return nil
	}
	parent := map[string]string{from: ""}
	depth := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if depth[cur] == limit {
			continue
		}
		for _, c := range d.g.Children(cur) {
			if _, seen := parent[c]; seen {
				continue
			}
			parent[c] = cur
			depth[c] = depth[cur] + 1
			if c == to {
				return unwind(parent, from, to)
			}
			queue = append(queue, c)
		}
	}
	return nil
}

func unwind(parent map[string]string, from, to string) []string {
	var rev []string
	for cur := to; ; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == from {
			break
		}
	}
	out := make([]string, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}

// disjoint reports whether the interiors of p1 and p2, ignoring the
// origins a and b and the site s, share no node.
func disjoint(p1, p2 []string, a, b, s string) bool {
	skip := func(id string) bool { return id == a || id == b || id == s }
	seen := make(map[string]bool, len(p1))
	for _, id := range interior(p1) {
		if !skip(id) {
			seen[id] = true
		}
	}
	for _, id := range interior(p2) {
		if !skip(id) && seen[id] {
			return false
		}
	}
	return true
}

func interior(p []string) []string {
	if len(p) <= 2 {
		return nil
	}
	return p[1 : len(p)-1]
}

func sortByPos(ids []string, pos map[string]int) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && pos[ids[j]] < pos[ids[j-1]]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
