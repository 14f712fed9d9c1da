package sdk

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachCredentials(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://localhost/api/items", nil)
	require.NoError(t, err)

	AttachCredentials(req, Session{})
	assert.Empty(t, req.Header.Get("Authorization"))

	AttachCredentials(req, sessionWithRole(RoleUser))
	assert.Equal(t, "Bearer tok-user", req.Header.Get("Authorization"))
}

func TestDecodeClaims(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"role":    "admin",
		"exp":     exp.Unix(),
	}).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)

	claims, err := DecodeClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestDecodeClaims_StringUserID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want int64
	}{
		{"numeric string", "17", 17},
		{"trailing garbage", "17abc", 0},
		{"not a number", "seventeen", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id": tt.id,
				"role":    "user",
			}).SignedString([]byte("not-the-server-key"))
			require.NoError(t, err)

			claims, err := DecodeClaims(signed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims.UserID)
			assert.Equal(t, RoleUser, claims.Role)
		})
	}
}

func TestDecodeClaims_Opaque(t *testing.T) {
	_, err := DecodeClaims("opaque-session-token")
	assert.Error(t, err)
}

func TestUser_IsAdmin(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}
