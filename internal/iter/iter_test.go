package iter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvc-lang/nvc/internal/idl"
)

func TestLookahead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10

	for x := 0; x < numValues; x = x + 1 {
		t.Run(fmt.Sprintf("LA(%d)", x), func(t *testing.T) {
			values := make([]int, 0, numValues)
			for y := 0; y < numValues; y = y + 1 {
				values = append(values, y)
			}
			look := NewLookahead(NewIndexedSlice(values), uint8(x))
			for y := 0; y < numValues; y = y + 1 {
				val := look.Next(ctx)
				require.True(t, val.IsPresent())
				require.Equal(t, y, val.Value().Index)
				require.Equal(t, y, *val.Value().Value)

				expectedPeek := y + x
				peek := look.Lookahead(ctx, uint8(x))
				if expectedPeek < numValues {
					require.True(t, peek.IsPresent())
					require.Equal(t, expectedPeek, peek.Value().Index)
				} else {
					require.False(t, peek.IsPresent())
				}
			}
			require.Nil(t, look.Close(ctx))
		})
	}
}

func TestLookaheadSkipsNewlines(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokens := []idl.Token{
		{Type: idl.TokenTypeSymbol, Value: "fun"},
		{Type: idl.TokenTypeNewline},
		{Type: idl.TokenTypeSymbol, Value: "f"},
		{Type: idl.TokenTypeNewline},
		{Type: idl.TokenTypeNewline},
		{Type: idl.TokenTypeOperator, Op: idl.OperatorLParen},
		{Type: idl.TokenTypeEOF},
	}
	filter := idl.Filter[Indexed[*idl.Token]](FilterFunc[Indexed[*idl.Token]](func(ctx context.Context, v Indexed[*idl.Token]) bool {
		return v.Value.Type != idl.TokenTypeNewline
	}))
	look := NewLookahead(NewIteratorFilter(NewIndexedSlice(tokens), filter), 1)

	first := look.Lookahead(ctx, 0)
	require.True(t, first.IsPresent())
	require.Equal(t, 0, first.Value().Index)
	require.Equal(t, 2, look.Lookahead(ctx, 1).Value().Index)

	indices := []int{}
	for v := look.Lookahead(ctx, 0); v.IsPresent(); v = look.Next(ctx) {
		indices = append(indices, v.Value().Index)
	}
	require.Equal(t, []int{0, 2, 5, 6}, indices)
}

func TestCollect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	odd := idl.Filter[int](FilterFunc[int](func(ctx context.Context, v int) bool {
		return v%2 == 1
	}))
	out, err := Collect(ctx, NewIteratorFilter(NewSlice([]int{1, 2, 3, 4, 5}), odd))
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 5}, out)

	empty, err := Collect(ctx, NewSlice[int](nil))
	require.NoError(t, err)
	require.Empty(t, empty)
}

var benchEscapeIndex int

func BenchmarkLookahead(b *testing.B) {
	ctx := context.Background()
	sliceSize := 1000
	slice := make([]idl.Token, sliceSize)
	look := NewLookahead(NewIndexedSlice(slice), 1)

	var loopEscapeIndex int
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		for x := 0; x < sliceSize; x = x + 1 {
			loopEscapeIndex = look.Next(ctx).Value().Index
			loopEscapeIndex += look.Lookahead(ctx, 1).Value().Index
		}
	}
	benchEscapeIndex = loopEscapeIndex
}
