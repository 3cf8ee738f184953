package cpm

import (
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/dag/topo"
)

// parallelPasses runs both passes level by level. Tasks of one rank have no
// edges between them, so each goroutine writes only its own TaskSchedule and
// reads only levels that are already complete.
func parallelPasses(s *Schedule, g *dag.Graph, order *topo.Order, workers int) error {
	levels := order.Levels()

	for _, level := range levels {
		if err := runLevel(level, workers, func(id string) { forward(s, g, id) }); err != nil {
			return err
		}
	}

	s.Duration = projectFinish(s, g)

	for i := len(levels) - 1; i >= 0; i-- {
		if err := runLevel(levels[i], workers, func(id string) { backward(s, g, id) }); err != nil {
			return err
		}
	}
	return nil
}

func runLevel(ids []string, workers int, fn func(id string)) error {
	if len(ids) == 1 {
		fn(ids[0])
		return nil
	}
	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, id := range ids {
		eg.Go(func() error {
			fn(id)
			return nil
		})
	}
	return eg.Wait()
}
