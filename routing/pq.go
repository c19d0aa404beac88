package routing

type frontierItem struct {
	vertex       int
	fScore       float64
	seq          uint64 // discovery order, breaks f-score ties
	indexInQueue int
}

// frontier is a container/heap min-queue ordered by f-score, then by discovery.
type frontier []*frontierItem

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].fScore != q[j].fScore {
		return q[i].fScore < q[j].fScore
	}
	return q[i].seq < q[j].seq
}

func (q frontier) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].indexInQueue = i
	q[j].indexInQueue = j
}

func (q *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.indexInQueue = len(*q)
	*q = append(*q, item)
}

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.indexInQueue = -1
	*q = old[:n-1]
	return item
}
