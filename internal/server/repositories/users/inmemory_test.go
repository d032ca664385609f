package users

import (
	"context"
	"sync"
	"testing"
	"unsafe"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	u, err := r.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h", Name: "A", Occupation: "Eng"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	require.NotNil(t, u.CreatedAt)

	_, err = r.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	got, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	require.NoError(t, r.Update(ctx, u.ID, models.UserInfo{Name: "B", Occupation: "Ops"}))
	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, "Ops", got.Occupation)

	require.NoError(t, r.Delete(ctx, u.ID))
	_, err = r.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, r.Delete(ctx, u.ID), common.ErrorNotFound)
	assert.ErrorIs(t, r.Update(ctx, u.ID, models.UserInfo{}), common.ErrorNotFound)

	// the email is free again
	_, err = r.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h3"})
	assert.NoError(t, err)
}

func TestInMemoryRepository_ListOrderedByID(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	for _, e := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		_, err := r.Create(ctx, &models.User{Email: e})
		require.NoError(t, err)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, u := range list {
		assert.Equal(t, int64(i+1), u.ID)
	}
	assert.Equal(t, "c@x.com", list[0].Email)
}

func TestInMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(ctx, &models.User{Email: "same@x.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, common.ErrorConflict)
		}
	}
	assert.Equal(t, 1, ok)
}

// view returns a string sharing memory with b, the way zero-copy request
// parsing hands strings out.
func view(b []byte) string { return unsafe.String(&b[0], len(b)) }

func TestInMemoryRepository_DoesNotAliasCallerStrings(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	email, hash := []byte("a@x.com"), []byte("hash")
	name, occ := []byte("Alice"), []byte("Eng")

	u, err := r.Create(ctx, &models.User{Email: view(email), PasswordHash: view(hash), Name: view(name), Occupation: view(occ)})
	require.NoError(t, err)

	newName, newOcc := []byte("Bob"), []byte("Ops")
	require.NoError(t, r.Update(ctx, u.ID, models.UserInfo{Name: view(newName), Occupation: view(newOcc)}))

	for _, b := range [][]byte{email, hash, name, occ, newName, newOcc} {
		for i := range b {
			b[i] = 'z'
		}
	}

	got, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.User{
		ID: u.ID, Email: "a@x.com", PasswordHash: "hash", Name: "Bob", Occupation: "Ops", CreatedAt: u.CreatedAt,
	}, *got)
}
