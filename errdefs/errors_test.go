package errdefs

import (
	"errors"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"

	"github.com/openllb/remap/kind"
)

func pos(line, col int) lexer.Position { return lexer.Position{Line: line, Column: col} }

func TestWithUndefinedIdent(t *testing.T) {
	err := WithUndefinedIdent("x", pos(1, 1), pos(1, 2))
	assert.Contains(t, err.Error(), `"x"`)
	assert.Contains(t, err.Error(), "1:1:")
}

func TestWithWrongType(t *testing.T) {
	err := WithWrongType(pos(1, 1), pos(1, 2), kind.IntegerKind(), kind.BytesKind())
	assert.Contains(t, err.Error(), "cannot use")
}

func TestWithInvalidPath(t *testing.T) {
	cause := errors.New("unexpected end of input")
	err := WithInvalidPath(pos(2, 3), pos(2, 4), ".foo.", cause)
	assert.Contains(t, err.Error(), "invalid path")
	assert.ErrorIs(t, err, cause)
}

func TestWithUnknownFunction(t *testing.T) {
	err := WithUnknownFunction(pos(1, 1), pos(1, 5), "bogus")
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestWithInternalErrorf(t *testing.T) {
	err := WithInternalErrorf(pos(1, 1), pos(1, 1), "unexpected %s", "state")
	assert.Contains(t, err.Error(), "unexpected state")
}

func TestWithReadOnlyPath(t *testing.T) {
	err := WithReadOnlyPath(pos(1, 1), pos(1, 5), ".locked")
	assert.Contains(t, err.Error(), ".locked")
	assert.Contains(t, err.Error(), "read-only")
}

func TestWithAbortNoErrs(t *testing.T) {
	cause := errors.New("stopped")
	e := WithAbort(cause, 0)
	assert.Equal(t, "stopped", e.Error())
	assert.Same(t, cause, e.Unwrap())
}

func TestWithAbortSingleAndMultipleErrs(t *testing.T) {
	e1 := WithAbort(errors.New("x"), 1)
	assert.Contains(t, e1.Error(), "previous error")

	e3 := WithAbort(errors.New("x"), 3)
	assert.Contains(t, e3.Error(), "3 errors")
}
