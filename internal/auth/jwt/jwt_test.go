package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "mobiliza/pkg/domain"
	dErrors "mobiliza/pkg/domain-errors"
)

var (
	service = NewService("test-signing-key", "mobiliza")
	userID  = id.NewUserID()
)

func Test_GenerateAccessToken(t *testing.T) {
	token, err := service.GenerateAccessToken(userID, "op@mobiliza.example.org", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "op@mobiliza.example.org", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := service.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "invalid token", dErrors.MessageOf(err))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := service.GenerateAccessToken(userID, "op@mobiliza.example.org", -time.Hour)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func Test_Adapter(t *testing.T) {
	token, err := service.GenerateAccessToken(userID, "op@mobiliza.example.org", time.Hour)
	require.NoError(t, err)

	claims, err := NewServiceAdapter(service).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "op@mobiliza.example.org", claims.Email)
}
