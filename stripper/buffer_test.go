package stripper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookaheadFill(t *testing.T) {
	b := newLookahead(3)
	src := strings.NewReader("abcde")

	require.NoError(t, b.fill(src))
	assert.Equal(t, []rune("abc"), b.buf)
	assert.False(t, b.done)

	assert.Equal(t, 'a', b.popOne())
	require.NoError(t, b.fill(src))
	assert.Equal(t, []rune("bcd"), b.buf)

	b.popN(3)
	require.NoError(t, b.fill(src))
	assert.Equal(t, []rune("e"), b.buf)
	assert.True(t, b.done)

	assert.Equal(t, 'e', b.popOne())
	require.NoError(t, b.fill(src))
	assert.True(t, b.empty())
}

func TestLookaheadMatches(t *testing.T) {
	b := newLookahead(3)
	require.NoError(t, b.fill(strings.NewReader("/*x")))

	assert.True(t, b.matches([]rune("/")))
	assert.True(t, b.matches([]rune("/*")))
	assert.True(t, b.matches([]rune("/*x")))
	assert.False(t, b.matches([]rune("*/")))
	assert.False(t, b.matches([]rune("//")))

	b.popN(2)
	require.NoError(t, b.fill(strings.NewReader("")))
	assert.True(t, b.matches([]rune("x")))
	assert.False(t, b.matches([]rune("x'")), "pattern longer than what is left never matches")
}

func TestLookaheadMultibyte(t *testing.T) {
	b := newLookahead(2)
	require.NoError(t, b.fill(strings.NewReader("λ→x")))
	assert.True(t, b.matches([]rune("λ→")))
	assert.Equal(t, 'λ', b.popOne())
}

func TestLookaheadPosition(t *testing.T) {
	b := newLookahead(1)
	src := strings.NewReader("ab\ncd")
	for range 4 {
		require.NoError(t, b.fill(src))
		b.popOne()
	}
	assert.Equal(t, 4, b.offset)
	assert.Equal(t, 2, b.line)
	assert.Equal(t, 2, b.column)
}

func TestLookaheadPopEmptyPanics(t *testing.T) {
	b := newLookahead(1)
	assert.Panics(t, func() { b.popOne() })
}
