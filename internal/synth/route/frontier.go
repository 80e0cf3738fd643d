package route

import "container/heap"

type item struct {
	node string
	from string
	cost float64
	seq  int
}

// frontier is a min-heap on cost; equal costs pop in push order.
type frontier struct {
	items []*item
	seq   int
}

func (f *frontier) push(node, from string, cost float64) {
	heap.Push(f, &item{node: node, from: from, cost: cost, seq: f.seq})
	f.seq++
}

func (f frontier) Len() int { return len(f.items) }

func (f frontier) Less(i, j int) bool {
	if f.items[i].cost != f.items[j].cost {
		return f.items[i].cost < f.items[j].cost
	}
	return f.items[i].seq < f.items[j].seq
}

func (f frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(*item)) }

func (f *frontier) Pop() any {
	n := len(f.items)
	it := f.items[n-1]
	f.items[n-1] = nil
	f.items = f.items[:n-1]
	return it
}
