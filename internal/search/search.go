// Package search implements the K-best-paths engine over a transit
// Graph: a single-source lexicographic Dijkstra augmented with endpoint
// walking costs, an outer loop that penalizes edges and endpoints used
// by already-accepted paths to surface up to K distinct alternatives.
//
// This is a heuristic variant of Yen-style alternative routing using
// additive penalties rather than explicit path exclusion — cheap, not
// optimal K-shortest, but it produces visibly different alternatives as
// long as the penalty constants dwarf realistic route costs.
package search

import (
	"container/heap"
	"time"

	"github.com/antigravity/transitcore/internal/graph"
)

// Options configures one outer K-best invocation. Penalty constants
// must be set well above any realistic true-path cost in the service
// area — 1e5 meters is the documented default for city-scale networks.
type Options struct {
	SwitchCostM       float64
	EdgePenalty       float64
	PointReusePenalty float64
	MaxAlternatives   int
	Deadline          time.Time // zero value disables the deadline
	MaxPops           int       // 0 disables the pop cap
}

// DefaultOptions returns the documented defaults: 200m switch cost,
// 1e5 penalty constants and MaxAlternatives 3, with no deadline or pop
// cap set.
func DefaultOptions() Options {
	return Options{
		SwitchCostM:       200.0,
		EdgePenalty:       100000.0,
		PointReusePenalty: 100000.0,
		MaxAlternatives:   3,
	}
}

// Result is one accepted alternative: the ordered Step sequence and its
// true distance in meters, with all outer-loop penalties stripped.
type Result struct {
	StepIDs  []int64
	Distance float64
}

// cost is the lexicographic (distance, switches) pair every node state
// and priority-queue entry is ordered by.
type cost struct {
	distance float64
	switches int
}

// less reports whether c is strictly lexicographically less than o.
func (c cost) less(o cost) bool {
	if c.distance != o.distance {
		return c.distance < o.distance
	}
	return c.switches < o.switches
}

// greater reports whether c is strictly lexicographically greater than
// o — used for the dominance check on pop (Design Note fix: compare the
// tuple as a whole, not each component independently).
func (c cost) greater(o cost) bool {
	if c.distance != o.distance {
		return c.distance > o.distance
	}
	return c.switches > o.switches
}

// edgeKey identifies a directed intra-route edge for penalty memory.
type edgeKey struct {
	from, to int64
}

// KBest runs the outer penalized-Dijkstra loop up to 2*opts.MaxAlternatives
// times, returning up to opts.MaxAlternatives distinct accepted paths,
// plus whether the deadline or pop cap cut the search short of that
// target — callers surface this as a partial-result signal rather than
// silently returning fewer alternatives than requested.
//
// startSteps is the union, over every candidate origin stop, of the
// Steps stopping there. startCosts/endCosts map Point id to the walking
// cost (meters) from the geographic origin/destination to that stop.
// endPoints is the candidate destination Point id set.
//
// No start steps, or start/end sets disjoint from the graph, yield an
// empty result — never an error. A cancelled or expired search returns
// whatever alternatives were already accepted.
func KBest(g *graph.Graph, startSteps []int64, startCosts map[int64]float64, endPoints map[int64]struct{}, endCosts map[int64]float64, opts Options) ([]Result, bool) {
	if len(startSteps) == 0 || len(endPoints) == 0 {
		return nil, false
	}

	penalizedEdges := make(map[edgeKey]struct{})
	curStartCosts := cloneCosts(startCosts)
	curEndCosts := cloneCosts(endCosts)

	var results []Result
	seen := make(map[string]struct{})

	maxRounds := opts.MaxAlternatives * 2
	pops := 0
	partial := false

	for round := 0; round < maxRounds; round++ {
		if deadlineExceeded(opts.Deadline) {
			partial = len(results) < opts.MaxAlternatives
			break
		}
		remainingPops := 0
		if opts.MaxPops > 0 {
			remainingPops = opts.MaxPops - pops
			if remainingPops <= 0 {
				partial = len(results) < opts.MaxAlternatives
				break
			}
		}

		path, entryPoint, exitPoint, popped := runOnce(g, startSteps, curStartCosts, endPoints, curEndCosts, opts.SwitchCostM, opts.EdgePenalty, penalizedEdges, opts.Deadline, remainingPops)
		pops += popped
		if path == nil {
			if deadlineExceeded(opts.Deadline) || (opts.MaxPops > 0 && pops >= opts.MaxPops) {
				partial = len(results) < opts.MaxAlternatives
			}
			break
		}

		key := pathKey(path)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			results = append(results, Result{
				StepIDs:  path,
				Distance: trueDistance(g, path, startCosts, endCosts, opts.SwitchCostM),
			})
			curStartCosts[entryPoint] += opts.PointReusePenalty
			curEndCosts[exitPoint] += opts.PointReusePenalty
		}

		for i := 0; i+1 < len(path); i++ {
			from, to := path[i], path[i+1]
			if next, ok := g.Next(from); ok && next == to {
				penalizedEdges[edgeKey{from: from, to: to}] = struct{}{}
			}
		}

		if len(results) >= opts.MaxAlternatives {
			break
		}
	}

	return results, partial
}

func deadlineExceeded(deadline time.Time) bool {
	return !deadline.IsZero() && !time.Now().Before(deadline)
}

func cloneCosts(in map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func pathKey(path []int64) string {
	b := make([]byte, 0, len(path)*9)
	for _, id := range path {
		b = appendInt64(b, id)
		b = append(b, '|')
	}
	return string(b)
}

func appendInt64(b []byte, v int64) []byte {
	if v == 0 {
		return append(b, '0')
	}
	if v < 0 {
		b = append(b, '-')
		v = -v
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// trueDistance recomputes a path's reported cost with every outer-loop
// penalty stripped: entry walking cost + raw intra-route edge weights +
// switchCost * (number of transfers) + exit walking cost. A step pair
// that is not a Next() relationship is a transfer edge, contributing
// switchCost rather than an edge weight.
func trueDistance(g *graph.Graph, path []int64, startCosts, endCosts map[int64]float64, switchCost float64) float64 {
	if len(path) == 0 {
		return 0
	}
	first, _ := g.Step(path[0])
	last, _ := g.Step(path[len(path)-1])

	total := startCosts[first.PointID] + endCosts[last.PointID]
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		if next, ok := g.Next(from); ok && next == to {
			total += g.EdgeWeight(from, to)
		} else {
			total += switchCost
		}
	}
	return total
}

// runOnce executes one lexicographic Dijkstra round and returns the
// reconstructed best path (entry to exit inclusive), the Point id of
// the entry and exit Steps, and the number of nodes popped.
func runOnce(g *graph.Graph, startSteps []int64, startCosts map[int64]float64, endPoints map[int64]struct{}, endCosts map[int64]float64, switchCost, edgePenalty float64, penalizedEdges map[edgeKey]struct{}, deadline time.Time, maxPops int) ([]int64, int64, int64, int) {
	dist := make(map[int64]cost)
	pred := make(map[int64]int64)

	pq := &priorityQueue{}
	heap.Init(pq)

	counter := 0
	for _, stepID := range startSteps {
		step, ok := g.Step(stepID)
		if !ok {
			continue
		}
		c := cost{distance: startCosts[step.PointID], switches: 0}
		if existing, ok := dist[stepID]; !ok || c.less(existing) {
			dist[stepID] = c
			heap.Push(pq, &pqEntry{c: c, seq: counter, stepID: stepID})
			counter++
		}
	}

	var bestPath []int64
	var bestEntry, bestExit int64
	bestTotal := cost{distance: posInf, switches: posInfSwitches}

	pops := 0
	for pq.Len() > 0 {
		if maxPops > 0 && pops >= maxPops {
			break
		}
		if deadlineExceeded(deadline) {
			break
		}

		e := heap.Pop(pq).(*pqEntry)
		pops++

		stored, ok := dist[e.stepID]
		if ok && e.c.greater(stored) {
			continue
		}

		if bestPath != nil && e.c.distance > bestTotal.distance {
			continue
		}

		step, ok := g.Step(e.stepID)
		if !ok {
			continue
		}

		if _, isEnd := endPoints[step.PointID]; isEnd {
			total := cost{distance: e.c.distance + endCosts[step.PointID], switches: e.c.switches}
			if total.less(bestTotal) {
				bestTotal = total
				bestPath = reconstruct(e.stepID, pred)
				bestEntry, _ = firstPointID(g, bestPath)
				bestExit = step.PointID
			}
		}

		if next, ok := g.Next(e.stepID); ok {
			weight := g.EdgeWeight(e.stepID, next)
			if _, penalized := penalizedEdges[edgeKey{from: e.stepID, to: next}]; penalized {
				weight += edgePenalty
			}
			newCost := cost{distance: e.c.distance + weight, switches: e.c.switches}
			if existing, ok := dist[next]; !ok || newCost.less(existing) {
				dist[next] = newCost
				pred[next] = e.stepID
				heap.Push(pq, &pqEntry{c: newCost, seq: counter, stepID: next})
				counter++
			}
		}

		for _, other := range g.StepsAtPoint(step.PointID) {
			if other == e.stepID {
				continue
			}
			newCost := cost{distance: e.c.distance + switchCost, switches: e.c.switches + 1}
			if existing, ok := dist[other]; !ok || newCost.less(existing) {
				dist[other] = newCost
				pred[other] = e.stepID
				heap.Push(pq, &pqEntry{c: newCost, seq: counter, stepID: other})
				counter++
			}
		}
	}

	return bestPath, bestEntry, bestExit, pops
}

func firstPointID(g *graph.Graph, path []int64) (int64, bool) {
	if len(path) == 0 {
		return 0, false
	}
	s, ok := g.Step(path[0])
	if !ok {
		return 0, false
	}
	return s.PointID, true
}

func reconstruct(endStepID int64, pred map[int64]int64) []int64 {
	var path []int64
	cur := endStepID
	for {
		path = append(path, cur)
		prev, ok := pred[cur]
		if !ok {
			break
		}
		cur = prev
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

const posInf = 1e18
const posInfSwitches = 1 << 30

// pqEntry is one priority-queue entry: (distance, switches, monotonic
// tiebreak, step id). Ties in the lexicographic (distance, switches)
// order break on seq, a strictly increasing insertion counter, so the
// search is deterministic regardless of host map/heap iteration order.
type pqEntry struct {
	c      cost
	seq    int
	stepID int64
}

type priorityQueue []*pqEntry

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].c.distance != pq[j].c.distance {
		return pq[i].c.distance < pq[j].c.distance
	}
	if pq[i].c.switches != pq[j].c.switches {
		return pq[i].c.switches < pq[j].c.switches
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*pqEntry))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
