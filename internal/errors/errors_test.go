package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := NotFound("column \"cases\"")
	wrapped := Wrap(base, "summary failed")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "summary failed", Message(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("disk full"), "write %s", "export.csv")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "write export.csv: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}

func TestGetCodeSeesThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", PreconditionFailed("need two columns"))

	assert.True(t, IsAppError(err))
	assert.True(t, HasCode(err, CodePreconditionFailed))
	assert.Equal(t, "need two columns", Message(err))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatasetLoad, fmt.Errorf("bad header"))

	assert.Equal(t, CodeDatasetLoad, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}
