package teacherRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"materials-service/internal/model/account"
	"materials-service/pkg/jsondoc"
)

var ErrTeacherNotFound = errors.New("teacher not found")

// seedSubjects maps the initial teacher display names to their subjects. The
// table is written once, when the teacher document does not exist yet, and is
// never regenerated afterwards.
var seedSubjects = map[string]string{
	"Nəqliyyat":            "transport",
	"Kompyuter sistemləri": "computer",
	"Riyaziyyat":           "math",
	"İqtisadiyyat":         "economics",
	"Azərbaycan dili":      "azerbaijani",
	"Ingilis dili":         "english",
	"Fiziki tərbiyə":       "physical",
	"Pedaqogika":           "pedagogy",
	"Kənd təsərrüfatı":     "agriculture",
	"Tarix":                "history",
}

// TeacherRepo owns the teacher credential document, keyed by display name.
type TeacherRepo struct {
	path string

	mu   sync.Mutex
	data map[string]account.TeacherAccount
}

// New loads the teacher document, seeding the initial accounts with seedHash
// when the document is absent or empty.
func New(path string, seedHash string) (*TeacherRepo, error) {
	r := &TeacherRepo{path: path, data: map[string]account.TeacherAccount{}}
	if jsondoc.Exists(path) {
		if err := jsondoc.Load(path, &r.data); err != nil {
			return nil, err
		}
	}
	if len(r.data) > 0 {
		return r, nil
	}
	for name, subject := range seedSubjects {
		r.data[name] = account.TeacherAccount{PasswordHash: seedHash, Subject: subject}
	}
	if err := jsondoc.Save(path, r.data); err != nil {
		return nil, fmt.Errorf("failed to seed teachers: %w", err)
	}
	return r, nil
}

// Get returns the account stored under the exact display name.
func (r *TeacherRepo) Get(_ context.Context, name string) (account.TeacherAccount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.data[name]
	return acc, ok
}

// All returns a copy of the whole table, for lookup strategies that need to
// scan display names.
func (r *TeacherRepo) All(_ context.Context) map[string]account.TeacherAccount {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]account.TeacherAccount, len(r.data))
	for name, acc := range r.data {
		out[name] = acc
	}
	return out
}

// Subjects returns display name to subject code, without password hashes.
func (r *TeacherRepo) Subjects(_ context.Context) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.data))
	for name, acc := range r.data {
		out[name] = acc.Subject
	}
	return out
}

// UpdatePasswordHash overwrites the stored hash and persists the document.
func (r *TeacherRepo) UpdatePasswordHash(_ context.Context, name, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.data[name]
	if !ok {
		return ErrTeacherNotFound
	}
	acc.PasswordHash = newHash
	r.data[name] = acc

	if err := jsondoc.Save(r.path, r.data); err != nil {
		return fmt.Errorf("failed to persist teachers: %w", err)
	}
	return nil
}
