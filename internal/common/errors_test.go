package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError_DefaultMessage(t *testing.T) {
	err := NewError(KindPageNotFound)
	require.Equal(t, "page does not exist", err.Error())
	require.Equal(t, KindPageNotFound, KindOf(err))
}

func TestNewErrorf_Override(t *testing.T) {
	err := NewErrorf(KindPagePublishFailed, "publish of %q rejected", "scp-1234")
	require.Equal(t, `publish of "scp-1234" rejected`, err.Error())
	require.True(t, IsKind(err, KindPagePublishFailed))
}

func TestWrapError_KeepsCauseAndKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(KindNetwork, cause)

	require.True(t, IsKind(err, KindNetwork))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "network error")
	require.Contains(t, err.Error(), "connection refused")
}

func TestKindOf_UnwrapsWrappedErrors(t *testing.T) {
	inner := NewError(KindAccessDenied)
	outer := fmt.Errorf("publishing baseline: %w", inner)

	require.Equal(t, KindAccessDenied, KindOf(outer))
	require.True(t, IsKind(outer, KindAccessDenied))
}

func TestKindOf_ForeignError(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.False(t, IsKind(nil, KindNetwork))
}

func TestErrorsIs_MatchesOnKind(t *testing.T) {
	a := NewErrorf(KindActionCancelled, "publication cancelled")
	require.ErrorIs(t, a, NewError(KindActionCancelled))
	require.NotErrorIs(t, a, NewError(KindNetwork))
}
