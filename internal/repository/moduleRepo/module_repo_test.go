package moduleRepo_test

import (
	"context"
	"path/filepath"
	"testing"

	"materials-service/internal/repository/moduleRepo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedHash = "$2a$04$fakefakefakefakefakefuXYZfakefakefakefakefakefakefake"

func TestNewSeedsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")
	ctx := context.Background()

	repo, err := moduleRepo.New(path, seedHash)
	require.NoError(t, err)

	usernames := repo.Usernames(ctx)
	assert.Len(t, usernames, 10)
	assert.Equal(t, "riyaziyyat", usernames["math"])
	assert.Equal(t, "kompyuter", usernames["computer"])

	acc, ok := repo.Get(ctx, "history")
	require.True(t, ok)
	assert.Equal(t, "tarix", acc.Username)
	assert.Equal(t, seedHash, acc.PasswordHash)
}

func TestGetUnknownSubject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")

	repo, err := moduleRepo.New(path, seedHash)
	require.NoError(t, err)

	_, ok := repo.Get(context.Background(), "astronomy")
	assert.False(t, ok)
}

func TestReopenKeepsExistingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")
	ctx := context.Background()

	_, err := moduleRepo.New(path, seedHash)
	require.NoError(t, err)

	reopened, err := moduleRepo.New(path, "a-different-seed-hash")
	require.NoError(t, err)

	acc, ok := reopened.Get(ctx, "math")
	require.True(t, ok)
	assert.Equal(t, seedHash, acc.PasswordHash)
}
