package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository/memory"
)

func seed(t *testing.T, lists ...domain.List) *memory.Store {
	t.Helper()
	store := memory.New()
	for i := range lists {
		require.NoError(t, store.Lists().Create(context.Background(), &lists[i]))
	}
	return store
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	store := seed(t,
		domain.List{ID: "active", OwnerID: "alice", Status: domain.ListActive},
		domain.List{ID: "deleted", OwnerID: "alice", Status: domain.ListDeleted},
	)

	cases := []struct {
		name    string
		listID  string
		subject string
		mode    Mode
		code    domain.ErrorCode
	}{
		{name: "owner reads", listID: "active", subject: "alice", mode: Read},
		{name: "owner writes", listID: "active", subject: "alice", mode: Write},
		{name: "foreign subject", listID: "active", subject: "bob", mode: Read, code: domain.ErrCodeForbidden},
		{name: "missing list", listID: "nope", subject: "alice", mode: Read, code: domain.ErrCodeNotFound},
		{name: "deleted list read", listID: "deleted", subject: "alice", mode: Read, code: domain.ErrCodeNotFound},
		{name: "deleted list write", listID: "deleted", subject: "alice", mode: Write, code: domain.ErrCodeNotFound},
		{name: "deleted list for deletion", listID: "deleted", subject: "alice", mode: Delete},
		{name: "deleted list is not found before forbidden", listID: "deleted", subject: "bob", mode: Write, code: domain.ErrCodeNotFound},
		{name: "deleted list delete by stranger", listID: "deleted", subject: "bob", mode: Delete, code: domain.ErrCodeForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := Resolve(ctx, store.Lists(), tc.listID, tc.subject, tc.mode)
			if tc.code == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.listID, list.ID)
				return
			}
			assert.True(t, domain.IsDomainError(err, tc.code), "got %v", err)
			assert.Nil(t, list)
		})
	}
}

func TestResolveStoreFailure(t *testing.T) {
	store := seed(t)
	store.Fail(assert.AnError)

	_, err := Resolve(context.Background(), store.Lists(), "any", "alice", Read)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreUnavailable))
}
