package bizerr

import (
	"errors"
	"fmt"
	"testing"

	"FitSocial/consts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesCodeMessage(t *testing.T) {
	err := Conflict(consts.CodeAlreadyFriend)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, consts.GetMessage(consts.CodeAlreadyFriend), err.Message)
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := Conflict(consts.CodeFriendRequestSent)
	custom := sentinel.WithMessage("对方已向你发送申请")

	wrapped := fmt.Errorf("send request: %w", custom)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, Conflict(consts.CodeAlreadyFriend)))
	assert.NotEqual(t, sentinel.Message, custom.Message)
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, int32(consts.CodeInternalError), CodeOf(err))
	assert.True(t, IsKind(err, KindInternal))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, int32(consts.CodeSuccess), CodeOf(nil))
	assert.Equal(t, int32(consts.CodeInternalError), CodeOf(errors.New("boom")))
	assert.Equal(t, int32(consts.CodeSelfRequest), CodeOf(Validation(consts.CodeSelfRequest)))

	e, ok := From(fmt.Errorf("x: %w", NotFound(consts.CodePlanNotFound)))
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
}
