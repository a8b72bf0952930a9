package purefn_test

import (
	"testing"

	"github.com/on-the-ground/memo_ive_go/purefn"
	"github.com/on-the-ground/memo_ive_go/purefn/configkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		in   string
		want purefn.Config
	}{
		{"", purefn.DefaultConfig()},
		{"key=ptr, lifetime=program, multi", purefn.Config{
			KeyMode: purefn.KeyPtr, ThreadMode: purefn.ThreadMulti, Lifetime: purefn.LifetimeProgram,
		}},
		{"heavy", purefn.Config{
			KeyMode: purefn.KeyVal, ThreadMode: purefn.ThreadSingle, Lifetime: purefn.LifetimeProblem,
		}},
		{" light , thread=multi ", purefn.Config{
			KeyMode: purefn.KeyPtr, ThreadMode: purefn.ThreadMulti, Lifetime: purefn.LifetimeProblem,
		}},
		{"key=normal,single", purefn.DefaultConfig()},
		{"KEY=VAL,key=ref", purefn.DefaultConfig()},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := purefn.ParseConfig(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseConfig_Unknown(t *testing.T) {
	for _, in := range []string{
		"key=deep",
		"lifetime=forever",
		"thread=many",
		"scope=problem",
		"fast",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := purefn.ParseConfig(in)
			assert.ErrorIs(t, err, purefn.ErrUnknownMode)
		})
	}
}

func TestConfigFromMap(t *testing.T) {
	cfg, err := purefn.ConfigFromMap(map[string]string{
		configkeys.ConfigMemoKeyMode:         "val",
		configkeys.ConfigMemoThreadMode:      "multi",
		configkeys.ConfigMemoLifetime:        "program",
		configkeys.ConfigMemoTableMaxEntries: "128",
	})
	require.NoError(t, err)
	assert.Equal(t, purefn.Config{
		KeyMode:    purefn.KeyVal,
		ThreadMode: purefn.ThreadMulti,
		Lifetime:   purefn.LifetimeProgram,
		MaxEntries: 128,
	}, cfg)

	cfg, err = purefn.ConfigFromMap(nil)
	require.NoError(t, err)
	assert.Equal(t, purefn.DefaultConfig(), cfg)
}

func TestConfigFromMap_Invalid(t *testing.T) {
	_, err := purefn.ConfigFromMap(map[string]string{configkeys.ConfigMemoLifetime: "epoch"})
	assert.ErrorIs(t, err, purefn.ErrUnknownMode)

	_, err = purefn.ConfigFromMap(map[string]string{configkeys.ConfigMemoTableMaxEntries: "lots"})
	assert.Error(t, err)

	_, err = purefn.ConfigFromMap(map[string]string{configkeys.ConfigMemoTableMaxEntries: "-1"})
	assert.Error(t, err)
}

func TestWithConfig(t *testing.T) {
	_, err := purefn.ParseConfig("val, program")
	require.ErrorIs(t, err, purefn.ErrUnknownMode)

	cfg, err := purefn.ParseConfig("val, lifetime=program")
	require.NoError(t, err)

	var calls int
	sum := purefn.Must(purefn.TableizeI1O1(func(xs []int) int {
		calls++
		return len(xs)
	}, purefn.WithConfig(cfg)))

	sum.Fn([]int{1, 2})
	sum.Fn([]int{1, 2})
	assert.Equal(t, 1, calls)
	assert.True(t, sum.PersistsAcrossCalls())
}

func TestTableize_ConfigurationErrors(t *testing.T) {
	sum := func(xs []int) int { return len(xs) }
	add := func(a, b int) int { return a + b }

	tests := []struct {
		name string
		err  error
		make func() error
	}{
		{"mutable reference", purefn.ErrMutableReference, func() error {
			_, err := purefn.TableizeI1O1(sum, purefn.WithParams(purefn.MutRef("xs")))
			return err
		}},
		{"unknown key mode", purefn.ErrUnknownMode, func() error {
			_, err := purefn.TableizeI1O1(sum, purefn.WithKeyMode("deep"))
			return err
		}},
		{"unknown thread mode", purefn.ErrUnknownMode, func() error {
			_, err := purefn.TableizeI1O1(sum, purefn.WithThreadMode("pool"))
			return err
		}},
		{"unknown lifetime", purefn.ErrUnknownMode, func() error {
			_, err := purefn.TableizeI1O1(sum, purefn.WithLifetime("epoch"))
			return err
		}},
		{"receiver name", purefn.ErrUnsupportedParam, func() error {
			_, err := purefn.TableizeI1O1(sum, purefn.WithParams(purefn.Ref("self")))
			return err
		}},
		{"wildcard name", purefn.ErrUnsupportedParam, func() error {
			_, err := purefn.TableizeI2O1(add, purefn.WithParams(purefn.Val("a"), purefn.Val("_")))
			return err
		}},
		{"pattern name", purefn.ErrUnsupportedParam, func() error {
			_, err := purefn.TableizeI2O1(add, purefn.WithParams(purefn.Val("(a, b)"), purefn.Val("c")))
			return err
		}},
		{"duplicate name", purefn.ErrUnsupportedParam, func() error {
			_, err := purefn.TableizeI2O1(add, purefn.WithParams(purefn.Val("a"), purefn.Val("a")))
			return err
		}},
		{"ref to a value type", purefn.ErrUnsupportedParam, func() error {
			_, err := purefn.TableizeI2O1(add, purefn.WithParams(purefn.Ref("a"), purefn.Val("b")))
			return err
		}},
		{"too few descriptors", purefn.ErrParamCount, func() error {
			_, err := purefn.TableizeI2O1(add, purefn.WithParams(purefn.Val("a")))
			return err
		}},
		{"func parameter", purefn.ErrUnsupportedType, func() error {
			_, err := purefn.TableizeI1O1(func(f func() int) int { return f() })
			return err
		}},
		{"chan in struct", purefn.ErrUnsupportedType, func() error {
			type job struct {
				ID   int
				Done chan struct{}
			}
			_, err := purefn.TableizeI1O1(func(j job) int { return j.ID })
			return err
		}},
		{"negative max entries", nil, func() error {
			_, err := purefn.TableizeI1O1(sum, purefn.WithMaxEntries(-1))
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.make()
			require.Error(t, err)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestTableize_PtrModeAcceptsOpaquePointees(t *testing.T) {
	type handle struct {
		ch chan int
	}
	var calls int
	id := purefn.Must(purefn.TableizeI1O1(func(h *handle) int {
		calls++
		return cap(h.ch)
	}, purefn.WithKeyMode(purefn.KeyPtr)))
	end := id.Scope()
	defer end()

	h := &handle{ch: make(chan int, 3)}
	assert.Equal(t, 3, id.Fn(h))
	assert.Equal(t, 3, id.Fn(h))
	assert.Equal(t, 1, calls)
}

func TestMust(t *testing.T) {
	assert.Panics(t, func() {
		purefn.Must(purefn.TableizeI1O1(func(xs []int) int { return 0 }, purefn.WithParams(purefn.MutRef("xs"))))
	})
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "value", purefn.ByValue.String())
	assert.Equal(t, "ref", purefn.ByRef.String())
	assert.Equal(t, "mut-ref", purefn.ByMutRef.String())
}
