package layout

import (
	"container/heap"

	"github.com/vk/crossgridgo/internal/grid"
)

// pendingStart is a queued follow-on start with its heap priority.
type pendingStart struct {
	priority float64
	order    int
	start    grid.Start
}

// pendingQueue is a min-heap of follow-on starts. Runs that already hold
// more letters pop first; insertion order breaks ties.
type pendingQueue []pendingStart

func (q pendingQueue) Len() int { return len(q) }

func (q pendingQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].order < q[j].order
}

func (q pendingQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pendingQueue) Push(x any) { *q = append(*q, x.(pendingStart)) }

func (q *pendingQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// queueStart enqueues the run through pos for a later theme word. Fully
// filled or sub-length runs are dropped on the floor.
func (e *Engine) queueStart(g *grid.Grid, start grid.Start) {
	sig, ok := g.Signature(start.Pos.Row, start.Pos.Col, start.Dir)
	if !ok {
		return
	}
	pattern := g.Pattern(sig)
	if isFull(pattern) {
		return
	}
	filled := 0
	for _, b := range pattern {
		if b != 0 {
			filled++
		}
	}
	openness := sig.Length - filled
	heap.Push(&e.pending, pendingStart{
		priority: float64(-filled*10 + openness),
		order:    e.pendingCounter,
		start:    grid.Start{Pos: sig.Start, Dir: start.Dir},
	})
	e.pendingCounter++
}
