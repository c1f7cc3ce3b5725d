package moduleRepo

import (
	"context"
	"fmt"
	"sync"

	"materials-service/internal/model/account"
	"materials-service/pkg/jsondoc"
)

// seedUsernames maps subject codes to the initial module login names. Written
// once when the module document does not exist yet.
var seedUsernames = map[string]string{
	"transport":   "neqliyyat",
	"computer":    "kompyuter",
	"math":        "riyaziyyat",
	"economics":   "iqtisadiyyat",
	"azerbaijani": "azdili",
	"english":     "ingilisdili",
	"physical":    "fiziki",
	"pedagogy":    "pedagogiya",
	"agriculture": "kend",
	"history":     "tarix",
}

// ModuleRepo owns the module credential document, keyed by subject code.
type ModuleRepo struct {
	path string

	mu   sync.Mutex
	data map[string]account.ModuleAccount
}

func New(path string, seedHash string) (*ModuleRepo, error) {
	r := &ModuleRepo{path: path, data: map[string]account.ModuleAccount{}}
	if jsondoc.Exists(path) {
		if err := jsondoc.Load(path, &r.data); err != nil {
			return nil, err
		}
	}
	if len(r.data) > 0 {
		return r, nil
	}
	for subject, username := range seedUsernames {
		r.data[subject] = account.ModuleAccount{Username: username, PasswordHash: seedHash}
	}
	if err := jsondoc.Save(path, r.data); err != nil {
		return nil, fmt.Errorf("failed to seed modules: %w", err)
	}
	return r, nil
}

// Get returns the account stored under the subject code.
func (r *ModuleRepo) Get(_ context.Context, subject string) (account.ModuleAccount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.data[subject]
	return acc, ok
}

// Usernames returns subject code to login name, without password hashes.
func (r *ModuleRepo) Usernames(_ context.Context) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.data))
	for subject, acc := range r.data {
		out[subject] = acc.Username
	}
	return out
}
