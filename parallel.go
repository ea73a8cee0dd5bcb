package abspy

import (
	"golang.org/x/sync/errgroup"
)

// collectEdges confirms candidate pairs with the exact shared-facet test.
// With a single worker the pairs are evaluated in order; with more, they are
// chunked across a fixed pool and the per-worker results are merged after the
// join barrier. Pairs are independent and the merge is an order-independent
// union, so both paths produce the identical edge set; parallelism only
// changes wall-clock time. A failing worker aborts the whole assembly: a
// partial adjacency graph would violate the symmetry invariant.
func collectEdges(cells []*Cell, pairs []Pair, eps float64, workers int) ([]edge, error) {
	if workers <= 1 || len(pairs) < 2*workers {
		return confirmPairs(cells, pairs, eps)
	}

	chunkSize := (len(pairs) + workers - 1) / workers
	results := make([][]edge, workers)

	var g errgroup.Group
	for workerID := 0; workerID < workers; workerID++ {
		workerID := workerID
		start := workerID * chunkSize
		end := min((workerID+1)*chunkSize, len(pairs))
		if start >= end {
			continue
		}

		g.Go(func() error {
			local, err := confirmPairs(cells, pairs[start:end], eps)
			if err != nil {
				return err
			}
			results[workerID] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &WorkerError{Stage: "adjacency assembly", Err: err}
	}

	var edges []edge
	for _, local := range results {
		edges = append(edges, local...)
	}
	return edges, nil
}

func confirmPairs(cells []*Cell, pairs []Pair, eps float64) ([]edge, error) {
	edges := make([]edge, 0, len(pairs))
	for _, p := range pairs {
		facet, ok, err := sharedFacet(cells[p.A], cells[p.B], eps)
		if err != nil {
			return nil, err
		}
		if ok {
			edges = append(edges, edge{a: p.A, b: p.B, facet: facet})
		}
	}
	return edges, nil
}
