package clone_test

import (
	"testing"

	"github.com/on-the-ground/memo_ive_go/purefn/internal/clone"
	"github.com/stretchr/testify/assert"
)

type matrix struct {
	Rows  [][]int
	Label *string
	Meta  map[string][]int
	note  string
}

type counted struct {
	n *int
}

func (c counted) Clone() counted {
	v := *c.n + 1
	return counted{n: &v}
}

func TestFor_ScalarsPassThrough(t *testing.T) {
	assert.Equal(t, 42, clone.For[int]()(42))
	assert.Equal(t, [2]float64{1, 2}, clone.For[[2]float64]()([2]float64{1, 2}))
}

func TestFor_DeepCopiesReferences(t *testing.T) {
	label := "m"
	src := matrix{
		Rows:  [][]int{{1, 2}, {3}},
		Label: &label,
		Meta:  map[string][]int{"k": {9}},
		note:  "kept",
	}
	dst := clone.For[matrix]()(src)
	assert.Equal(t, src, dst)

	dst.Rows[0][0] = 100
	*dst.Label = "changed"
	dst.Meta["k"][0] = 0

	assert.Equal(t, 1, src.Rows[0][0])
	assert.Equal(t, "m", *src.Label)
	assert.Equal(t, 9, src.Meta["k"][0])
	assert.Equal(t, "kept", dst.note)
}

func TestFor_NilsStayNil(t *testing.T) {
	var s []int
	assert.Nil(t, clone.For[[]int]()(s))

	var m map[string]int
	assert.Nil(t, clone.For[map[string]int]()(m))

	var a any
	assert.Nil(t, clone.For[any]()(a))
}

func TestFor_InterfaceValues(t *testing.T) {
	var src any = []int{1, 2}
	dst := clone.For[any]()(src)
	dst.([]int)[0] = 5
	assert.Equal(t, 1, src.([]int)[0])
}

func TestFor_UsesCloner(t *testing.T) {
	n := 1
	out := clone.For[counted]()(counted{n: &n})
	assert.Equal(t, 2, *out.n)
}
