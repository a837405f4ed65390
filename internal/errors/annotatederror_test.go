package errors_test

import (
	"fmt"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/stretchr/testify/require"
	"log/slog"
	"slices"
	"testing"
)

func TestAnnotatedError(t *testing.T) {
	err := errors.New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := errors.NewSentinel("test error")
	require.NotErrorIs(t, err, errors.NewSentinel("test error"))
	wrapped := errors.Wrap(sentinel, "wrapped", slog.String("entry_id", "abc"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "wrapped: test error", wrapped.Error())

	// Ensure log values are coming through.
	valuer, ok := err.(slog.LogValuer)
	require.True(t, ok, "annotated error should implement slog.LogValuer")
	group := valuer.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.NotEqual(t, -1, sourceIdx)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestWrap(t *testing.T) {
	require.NoError(t, errors.Wrap(nil, "nothing to wrap"))

	inner := errors.New("inner", slog.String("inner_attr", "1"))
	outer := errors.Wrap(inner, "outer", slog.String("outer_attr", "2"))
	require.ErrorIs(t, outer, inner)

	valuer, ok := outer.(slog.LogValuer)
	require.True(t, ok)
	group := valuer.LogValue().Group()
	require.Contains(t, group, slog.String("inner_attr", "1"))
	require.Contains(t, group, slog.String("outer_attr", "2"))
}

func TestSlogError(t *testing.T) {
	plain := fmt.Errorf("plain")
	require.Equal(t, slog.String("error", "plain"), errors.SlogError(plain))

	annotated := errors.New("annotated")
	attr := errors.SlogError(annotated)
	require.Equal(t, "error", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Resolve().Kind())

	mixed := fmt.Errorf("outer: %w", annotated)
	attr = errors.SlogError(mixed)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
}
