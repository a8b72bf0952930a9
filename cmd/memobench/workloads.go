package main

import (
	"fmt"
	"sync/atomic"

	"github.com/on-the-ground/memo_ive_go/purefn"
	"golang.org/x/sync/errgroup"
)

// workload runs one memoized computation and reports how many times the
// underlying function executed.
type workload struct {
	name string
	run  func(opts []purefn.Option, rounds, workers int) (result string, executions int64, stats purefn.Stats, err error)
}

var workloads = []workload{
	{"fib", runFib},
	{"levenshtein", runLevenshtein},
	{"slice-sum", runSliceSum},
}

func runFib(opts []purefn.Option, rounds, _ int) (string, int64, purefn.Stats, error) {
	var calls atomic.Int64
	var fib purefn.Tableized[func(int) int]
	fib, err := purefn.TableizeI1O1(func(n int) int {
		calls.Add(1)
		if n < 2 {
			return n
		}
		return fib.Fn(n-1) + fib.Fn(n-2)
	}, append(opts, purefn.WithName("fib"))...)
	if err != nil {
		return "", 0, purefn.Stats{}, err
	}

	var res int
	for range rounds {
		res = fib.Fn(60)
	}
	return fmt.Sprint(res), calls.Load(), fib.Stats(), nil
}

func runLevenshtein(opts []purefn.Option, rounds, _ int) (string, int64, purefn.Stats, error) {
	var calls atomic.Int64
	var lev purefn.Tableized[func(string, string) int]
	lev, err := purefn.TableizeI2O1(func(a, b string) int {
		calls.Add(1)
		if len(a) == 0 {
			return len(b)
		}
		if len(b) == 0 {
			return len(a)
		}
		if a[0] == b[0] {
			return lev.Fn(a[1:], b[1:])
		}
		return 1 + min(lev.Fn(a[1:], b), lev.Fn(a, b[1:]), lev.Fn(a[1:], b[1:]))
	}, append(opts, purefn.WithName("levenshtein"), purefn.WithParams(purefn.Ref("a"), purefn.Ref("b")))...)
	if err != nil {
		return "", 0, purefn.Stats{}, err
	}

	var res int
	for range rounds {
		res = lev.Fn("memoization engine", "memorization engines")
	}
	return fmt.Sprint(res), calls.Load(), lev.Stats(), nil
}

// runSliceSum calls one memo from several goroutines when the thread mode
// allows it, each goroutine with its own allocation of the same content.
func runSliceSum(opts []purefn.Option, rounds, workers int) (string, int64, purefn.Stats, error) {
	var calls atomic.Int64
	sum, err := purefn.TableizeI1O1(func(xs []int) int {
		calls.Add(1)
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	}, append(opts, purefn.WithName("slice-sum"))...)
	if err != nil {
		return "", 0, purefn.Stats{}, err
	}
	if sum.Config().ThreadMode != purefn.ThreadMulti {
		workers = 1
	}

	var total atomic.Int64
	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			xs := make([]int, 4096)
			for i := range xs {
				xs[i] = i
			}
			for range rounds {
				total.Add(int64(sum.Fn(xs)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, purefn.Stats{}, err
	}
	return fmt.Sprint(total.Load()), calls.Load(), sum.Stats(), nil
}
