package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("reader@example.com", "", "correct-horse", "Reader")
	require.NoError(t, err)

	assert.Equal(t, "reader@example.com", u.Email)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.True(t, u.IsActive())
	require.Len(t, u.Roles, 1)
	assert.Equal(t, ROLE_USER, u.Roles[0].Role)

	assert.True(t, CheckPasswordHash("correct-horse", u.PasswordHash))
	assert.False(t, CheckPasswordHash("wrong-horse", u.PasswordHash))
}

func TestCreateUserRejectsInvalidEmail(t *testing.T) {
	_, err := CreateUser("not-an-email", "", "password123", "Reader")
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	brandID := uint(3)
	u := &User{Roles: []UserRole{
		{Role: ROLE_AUTHOR, BrandID: &brandID},
	}}

	assert.True(t, u.HasRole(ROLE_AUTHOR))
	assert.False(t, u.HasRole(ROLE_ADMIN))
	assert.True(t, u.HasAnyRole(ROLE_ADMIN, ROLE_AUTHOR))
	assert.False(t, u.HasAnyRole(ROLE_ADMIN, ROLE_SUPER_ADMIN))
}

func TestCanAccessBrand(t *testing.T) {
	brandID := uint(3)

	super := &User{Roles: []UserRole{{Role: ROLE_SUPER_ADMIN}}}
	assert.True(t, super.CanAccessBrand(1))
	assert.True(t, super.CanAccessBrand(99))

	author := &User{Roles: []UserRole{{Role: ROLE_AUTHOR, BrandID: &brandID}}}
	assert.True(t, author.CanAccessBrand(3))
	assert.False(t, author.CanAccessBrand(4))

	reader := &User{Roles: []UserRole{{Role: ROLE_USER}}}
	assert.False(t, reader.CanAccessBrand(3))
}
