package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("delete category: %w", Conflict("Cannot delete category with existing posts"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.Equal(t, "Cannot delete category with existing posts", MessageOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
	assert.Empty(t, MessageOf(errors.New("boom")))
}

func TestValidationFields(t *testing.T) {
	err := Validation(
		FieldError{Path: "title", Msg: "Title is required"},
		FieldError{Path: "content", Msg: "Content is required"},
	)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Len(t, FieldsOf(err), 2)
	assert.Equal(t, "Title is required", MessageOf(err))
	assert.Equal(t, "Title is required; Content is required", err.Error())
}

func TestInvalidKeepsSummary(t *testing.T) {
	err := Invalid("Please provide author and content for the comment", FieldError{Path: "author", Msg: "Author name is required"})
	assert.Equal(t, "Please provide author and content for the comment", MessageOf(err))
	assert.Len(t, FieldsOf(err), 1)
}

func TestUnavailableUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage unavailable: connection refused", err.Error())
}
