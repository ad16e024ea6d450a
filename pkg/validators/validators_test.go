package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("a@b.com"))
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
	assert.ErrorIs(t, EmailValidator("Someone <a@b.com>"), ErrEmailInvalid)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("123456"))
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("12345"), ErrPasswordTooShort)
}

func TestNumberParam(t *testing.T) {
	def := 10

	n, err := NumberParam("pageEnd", "", &def)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = NumberParam("pageEnd", "3", &def)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = NumberParam("id", "", nil)
	assert.EqualError(t, err, "id must be a number")

	_, err = NumberParam("pageStart", "abc", &def)
	assert.EqualError(t, err, "pageStart must be a number")
}
