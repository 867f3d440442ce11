package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostockflow/internal/pkg/token"
)

func TestGenerateAndValidateToken_Success(t *testing.T) {
	svc := token.NewService("segredo-de-teste", time.Hour)

	raw, err := svc.GenerateToken(42, "Manager")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Manager", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken_Fail_WrongSecret(t *testing.T) {
	raw, err := token.NewService("segredo-a", time.Hour).GenerateToken(1, "Staff")
	require.NoError(t, err)

	_, err = token.NewService("segredo-b", time.Hour).ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidateToken_Fail_Expired(t *testing.T) {
	svc := token.NewService("segredo", -time.Minute)

	raw, err := svc.GenerateToken(1, "Staff")
	require.NoError(t, err)

	_, err = svc.ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidateToken_Fail_NoUserID(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)

	raw, err := svc.GenerateToken(0, "Staff")
	require.NoError(t, err)

	_, err = svc.ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidateToken_Fail_Garbage(t *testing.T) {
	_, err := token.NewService("segredo", time.Hour).ValidateToken("nao.e.jwt")
	assert.Error(t, err)
}
