package util

import (
	"cmp"
	"slices"

	"golang.org/x/sync/errgroup"
)

type concurrentOutputWithOrdering[T any] struct {
	order  int
	output T
}

// ConcurrentMapFuncWithError maps f over inputs with at most concurrency goroutines,
// preserving input order in the output. concurrency == 0 runs sequentially and a
// negative value removes the limit. The first error aborts the result.
func ConcurrentMapFuncWithError[Tin any, Tout any](inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	eg := errgroup.Group{}
	if concurrency == 0 {
		eg.SetLimit(1)
	} else if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	ch := make(chan concurrentOutputWithOrdering[Tout], len(inputs))
	for i := range inputs {
		order := i
		in := inputs[i]
		eg.Go(func() error {
			out, err := f(in)
			if err != nil {
				return err
			}
			ch <- concurrentOutputWithOrdering[Tout]{order, out}
			return nil
		})
	}

	err := eg.Wait()
	close(ch)
	if err != nil {
		return nil, err
	}

	tmp := make([]concurrentOutputWithOrdering[Tout], 0, len(inputs))
	for t := range ch {
		tmp = append(tmp, t)
	}
	slices.SortFunc(tmp, func(a, b concurrentOutputWithOrdering[Tout]) int {
		return cmp.Compare(a.order, b.order)
	})

	return TransformSlice(tmp, func(t concurrentOutputWithOrdering[Tout]) Tout {
		return t.output
	}), nil
}
