package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	t.Parallel()

	user, err := CreateUser("Felix Tester", "felix@example.com", "s3cret-pw")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, ROLE_USER, user.Role)
	assert.NotEqual(t, "s3cret-pw", user.Password)
	assert.True(t, user.CheckPassword("s3cret-pw"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()

	_, err := CreateUser("ab", "felix@example.com", "s3cret-pw")
	assert.Error(t, err, "name below minimum length")

	_, err = CreateUser("Felix Tester", "not-an-email", "s3cret-pw")
	assert.Error(t, err, "invalid email")

	_, err = CreateUser("Felix Tester", "felix@example.com", "short")
	assert.Error(t, err, "password below minimum length")
}

func TestSetPassword(t *testing.T) {
	t.Parallel()

	user, err := CreateUser("Felix Tester", "felix@example.com", "first-pw")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("second-pw"))
	assert.False(t, user.CheckPassword("first-pw"))
	assert.True(t, user.CheckPassword("second-pw"))
}

func TestPublicOmitsPassword(t *testing.T) {
	t.Parallel()

	user, err := CreateUser("Felix Tester", "felix@example.com", "s3cret-pw")
	require.NoError(t, err)

	public := user.Public()
	assert.Equal(t, user.ID, public["id"])
	assert.Equal(t, user.Email, public["email"])
	assert.NotContains(t, public, "password")
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	user := &User{Role: ROLE_USER}
	assert.False(t, user.IsAdmin())

	user.Role = ROLE_ADMIN
	assert.True(t, user.IsAdmin())
}
