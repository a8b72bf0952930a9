package purefn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLifetime(t *testing.T) {
	refs := []Param{Val("n"), Ref("xs")}
	vals := []Param{Val("n")}

	tests := []struct {
		name       string
		cfg        Config
		params     []Param
		clear      bool
		downgraded bool
	}{
		{"problem", Config{KeyMode: KeyVal, Lifetime: LifetimeProblem}, vals, true, false},
		{"program by value", Config{KeyMode: KeyPtr, Lifetime: LifetimeProgram}, vals, false, false},
		{"program ptr refs", Config{KeyMode: KeyPtr, Lifetime: LifetimeProgram}, refs, true, true},
		{"program ref refs", Config{KeyMode: KeyRef, Lifetime: LifetimeProgram}, refs, true, true},
		{"program val refs", Config{KeyMode: KeyVal, Lifetime: LifetimeProgram}, refs, false, false},
		{"problem ref refs", Config{KeyMode: KeyRef, Lifetime: LifetimeProblem}, refs, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := newLifetime(tc.cfg, tc.params)
			assert.Equal(t, tc.clear, l.clearAtBoundary)
			assert.Equal(t, tc.downgraded, l.downgraded())
		})
	}
}

func TestDepth(t *testing.T) {
	for name, d := range map[string]depth{"local": &localDepth{}, "shared": &sharedDepth{}} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, d.enter())
			assert.False(t, d.enter())
			assert.False(t, d.leave())
			assert.True(t, d.leave())
			assert.True(t, d.enter())
			assert.True(t, d.leave())
		})
	}
}

func TestInferParams(t *testing.T) {
	var (
		n  int
		s  string
		xs []int
		p  *int
		m  map[string]int
	)
	params := inferParams(typesOf(
		valueOf(n).Type(), valueOf(s).Type(), valueOf(xs).Type(), valueOf(p).Type(), valueOf(m).Type(),
	))
	assert.Equal(t, []Param{Val("arg0"), Val("arg1"), Ref("arg2"), Ref("arg3"), Ref("arg4")}, params)
	assert.True(t, hasRef(params))
	assert.False(t, hasRef(params[:2]))
}
