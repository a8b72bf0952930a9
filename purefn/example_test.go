package purefn_test

import (
	"fmt"

	"github.com/on-the-ground/memo_ive_go/purefn"
)

func ExampleTableizeI1O1() {
	var fib purefn.Tableized[func(int) int]
	fib = purefn.Must(purefn.TableizeI1O1(func(n int) int {
		if n < 2 {
			return n
		}
		return fib.Fn(n-1) + fib.Fn(n-2)
	}))

	fmt.Println(fib.Fn(50))
	fmt.Println(fib.Stats().Misses)
	// Output:
	// 12586269025
	// 51
}

func ExampleMemo_Scope() {
	calls := 0
	sum := purefn.Must(purefn.TableizeI1O1(func(xs []int) int {
		calls++
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	}))

	end := sum.Scope()
	fmt.Println(sum.Fn([]int{1, 2, 3, 4, 5}))
	fmt.Println(sum.Fn([]int{1, 2, 3, 4, 5}))
	end()
	fmt.Println(calls)
	// Output:
	// 15
	// 15
	// 1
}

func ExampleParseConfig() {
	cfg, err := purefn.ParseConfig("key=ptr, lifetime=program, multi")
	if err != nil {
		panic(err)
	}
	fmt.Println(cfg.KeyMode, cfg.ThreadMode, cfg.Lifetime)
	// Output: ptr multi program
}
