package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/internal/token"
	"github.com/fastygo/tasklists/repository/memory"
)

func newUseCase(t *testing.T) (*UseCase, *token.Manager, *memory.Store) {
	t.Helper()
	store := memory.New()
	tokens, err := token.NewManager("test-secret", "tasklists", time.Hour)
	require.NoError(t, err)
	uc := New(store.Clients(), tokens, nil, WithHashCost(bcrypt.MinCost))
	return uc, tokens, store
}

func TestRegisterAndExchange(t *testing.T) {
	ctx := context.Background()
	uc, tokens, store := newUseCase(t)

	client, err := uc.Register(ctx, "alice", RegisterInput{ClientID: "cli", ClientSecret: "s3cret-value", Name: "CLI"})
	require.NoError(t, err)
	assert.Equal(t, "cli", client.ID)
	assert.Equal(t, "alice", client.RegisteredBy)

	stored, err := store.Clients().GetByID(ctx, "cli")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-value", stored.SecretHash, "only the hash is stored")

	tok, err := uc.Exchange(ctx, "cli", "s3cret-value")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, 3600, tok.ExpiresIn)

	subject, err := tokens.Verify(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cli", subject)
}

func TestExchangeRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUseCase(t)
	_, err := uc.Register(ctx, "alice", RegisterInput{ClientID: "cli", ClientSecret: "right"})
	require.NoError(t, err)

	_, err = uc.Exchange(ctx, "cli", "wrong")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)

	_, err = uc.Exchange(ctx, "ghost", "right")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUseCase(t)
	_, err := uc.Register(ctx, "alice", RegisterInput{ClientID: "cli", ClientSecret: "one"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, "bob", RegisterInput{ClientID: "cli", ClientSecret: "two"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestExchangeStoreFailure(t *testing.T) {
	uc, _, store := newUseCase(t)
	store.Fail(assert.AnError)

	_, err := uc.Exchange(context.Background(), "cli", "secret")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreUnavailable))
}
