// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package refs

import (
	"testing"

	"github.com/gitnext/core/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup map[Name]Reference

func (m mapLookup) Lookup(name Name) (Reference, bool, error) {
	r, ok := m[name]
	return r, ok, nil
}

func TestNameValidation(t *testing.T) {
	cases := []struct {
		name  Name
		valid bool
	}{
		{"refs/heads/main", true},
		{"", false},
		{"refs/heads/../escape", false},
		{"refs/heads/trailing/", false},
		{"-leading-dash", false},
		{"has space", false},
	}
	for _, c := range cases {
		err := c.name.Validate()
		if c.valid {
			assert.NoError(t, err, c.name)
		} else {
			assert.Error(t, err, c.name)
		}
	}
}

func TestBranchTagHelpers(t *testing.T) {
	b := BranchRef("feature")
	assert.True(t, b.IsBranch())
	assert.Equal(t, "feature", b.BranchName())

	tg := TagRef("v1")
	assert.True(t, tg.IsTag())
	assert.Equal(t, "v1", tg.TagName())
}

func TestResolveDirect(t *testing.T) {
	id := object.MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	lookup := mapLookup{
		Head: NewDirectReference(Head, id),
	}
	resolved, err := Resolve(lookup, Head)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestResolveSymbolicChain(t *testing.T) {
	id := object.MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	main := BranchRef("main")
	lookup := mapLookup{
		Head: NewSymbolicReference(Head, main),
		main: NewDirectReference(main, id),
	}
	resolved, err := Resolve(lookup, Head)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestResolveDetectsCycle(t *testing.T) {
	a := Name("refs/heads/a")
	b := Name("refs/heads/b")
	lookup := mapLookup{
		a: NewSymbolicReference(a, b),
		b: NewSymbolicReference(b, a),
	}
	_, err := Resolve(lookup, a)
	require.Error(t, err)
	var cyc *ErrCyclicReference
	assert.ErrorAs(t, err, &cyc)
}

func TestResolveMissing(t *testing.T) {
	lookup := mapLookup{}
	_, err := Resolve(lookup, Head)
	require.Error(t, err)
}
