package alert

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlert(t *testing.T) {
	cause := errors.New("connection refused")
	a := New("오류", "메시지를 전송할 수 없습니다.", cause)

	assert.Equal(t, "오류: 메시지를 전송할 수 없습니다.: connection refused", a.Error())
	assert.ErrorIs(t, a, cause)

	wrapped := fmt.Errorf("send: %w", a)
	got, ok := From(wrapped)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = From(cause)
	assert.False(t, ok)

	assert.Equal(t, "t: m", New("t", "m", nil).Error())
}
