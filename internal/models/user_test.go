package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ToResponseHidesSecrets(t *testing.T) {
	code := "482913"
	expires := time.Now().Add(10 * time.Minute)
	u := User{
		UUID:                      "7c0f0c9e-3e0c-4b8e-9a51-3d1f0c2b5a11",
		Username:                  "ann",
		Email:                     "ann@x.com",
		PasswordHash:              "$2a$10$hash",
		Role:                      RoleUser,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expires,
	}

	body, err := json.Marshal(u.ToResponse())
	require.NoError(t, err)

	assert.NotContains(t, string(body), "hash")
	assert.NotContains(t, string(body), code)
	assert.JSONEq(t, `{"id":"7c0f0c9e-3e0c-4b8e-9a51-3d1f0c2b5a11","username":"ann","email":"ann@x.com","enabled":false,"role":"user"}`, string(body))
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
