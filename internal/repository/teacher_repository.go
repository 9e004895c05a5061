package repository

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
)

// TeacherSeed is a plain directory entry before its id number is hashed.
type TeacherSeed struct {
	ID           string
	FullName     string
	IDNumber     string
	Organization string
}

// DefaultTeachers is the built-in directory of teachers allowed to sign in.
var DefaultTeachers = []TeacherSeed{
	{ID: "teacher1", FullName: "John Smith", IDNumber: "TEACH001"},
	{ID: "teacher2", FullName: "Sarah Johnson", IDNumber: "TEACH002"},
	{ID: "teacher3", FullName: "User name", IDNumber: "DEMO123"},
}

// TeacherRepository is a read-only in-memory teacher directory. Id numbers are
// kept only as bcrypt hashes of their lower-cased form.
type TeacherRepository struct {
	byName map[string][]models.TeacherCredential
}

// NewTeacherRepository hashes the seeds with the given bcrypt cost.
func NewTeacherRepository(seeds []TeacherSeed, cost int) (*TeacherRepository, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	repo := &TeacherRepository{byName: make(map[string][]models.TeacherCredential, len(seeds))}
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(normalise(seed.IDNumber)), cost)
		if err != nil {
			return nil, fmt.Errorf("hash id number for %s: %w", seed.ID, err)
		}
		cred := models.TeacherCredential{
			Teacher: models.Teacher{
				ID:       seed.ID,
				FullName: seed.FullName,
				IDNumber: seed.IDNumber,
			},
			IDNumberHash: hash,
		}
		if seed.Organization != "" {
			org := seed.Organization
			cred.Organization = &org
		}
		key := normalise(seed.FullName)
		repo.byName[key] = append(repo.byName[key], cred)
	}
	return repo, nil
}

// FindByCredentials returns the teacher matching both fields case-insensitively.
func (r *TeacherRepository) FindByCredentials(_ context.Context, fullName, idNumber string) (*models.Teacher, error) {
	candidate := []byte(normalise(idNumber))
	for _, cred := range r.byName[normalise(fullName)] {
		if bcrypt.CompareHashAndPassword(cred.IDNumberHash, candidate) == nil {
			teacher := cred.Teacher
			return &teacher, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
