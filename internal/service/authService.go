package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"materials-service/internal/model/account"
	"materials-service/internal/repository/moduleRepo"
	"materials-service/internal/repository/teacherRepo"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown name and a wrong
	// password, so responses never leak which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrModuleNotFound     = errors.New("module not found")
)

type AuthService struct {
	teacherRepo *teacherRepo.TeacherRepo
	moduleRepo  *moduleRepo.ModuleRepo
	fuzzyLookup bool
}

func New(teacherRepo *teacherRepo.TeacherRepo, moduleRepo *moduleRepo.ModuleRepo, fuzzyLookup bool) *AuthService {
	return &AuthService{teacherRepo: teacherRepo, moduleRepo: moduleRepo, fuzzyLookup: fuzzyLookup}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyTeacher checks a teacher login and returns the matched display name
// and subject. The name lookup may fall back to a fuzzy strategy; the
// password check is the same bcrypt compare on every path.
func (s *AuthService) VerifyTeacher(ctx context.Context, name, password string) (matchedName, subject string, err error) {
	matchedName, acc, ok := s.lookupTeacher(ctx, name)
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}
	return matchedName, acc.Subject, nil
}

// VerifyModule checks a module login: the stored username and the password
// must both match.
func (s *AuthService) VerifyModule(ctx context.Context, subject, username, password string) error {
	acc, ok := s.moduleRepo.Get(ctx, subject)
	if !ok {
		return ErrModuleNotFound
	}
	if username != acc.Username {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// UpdateTeacherPassword re-verifies the current password before storing the
// new hash. Lookup here is exact only.
func (s *AuthService) UpdateTeacherPassword(ctx context.Context, name, currentPassword, newPassword string) error {
	acc, ok := s.teacherRepo.Get(ctx, name)
	if !ok {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	newHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.teacherRepo.UpdatePasswordHash(ctx, name, newHash)
}

func (s *AuthService) TeacherSubjects(ctx context.Context) map[string]string {
	return s.teacherRepo.Subjects(ctx)
}

func (s *AuthService) ModuleUsernames(ctx context.Context) map[string]string {
	return s.moduleRepo.Usernames(ctx)
}

// lookupTeacher tries the exact display name first. With fuzzy lookup enabled
// it then accepts a case-insensitive or substring match against display name
// or subject code, but only when it resolves to exactly one account.
func (s *AuthService) lookupTeacher(ctx context.Context, name string) (string, account.TeacherAccount, bool) {
	if acc, ok := s.teacherRepo.Get(ctx, name); ok {
		return name, acc, true
	}
	if !s.fuzzyLookup || strings.TrimSpace(name) == "" {
		return "", account.TeacherAccount{}, false
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	all := s.teacherRepo.All(ctx)

	for displayName, acc := range all {
		if strings.ToLower(displayName) == needle {
			return displayName, acc, true
		}
	}

	var matched []string
	for displayName, acc := range all {
		if strings.Contains(strings.ToLower(displayName), needle) || strings.Contains(needle, acc.Subject) {
			matched = append(matched, displayName)
		}
	}
	if len(matched) != 1 {
		return "", account.TeacherAccount{}, false
	}
	return matched[0], all[matched[0]], true
}
