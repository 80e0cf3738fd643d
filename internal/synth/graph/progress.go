package graph

import "sync/atomic"

type progress struct {
	r     Reporter
	total int
	n     atomic.Int64
}

func newProgress(r Reporter, total int) *progress {
	return &progress{r: r, total: total}
}

func (p *progress) done(id string) {
	if p.r != nil {
		p.r.Processed(id, int(p.n.Add(1)), p.total)
	}
}
