package catalogueRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"materials-service/internal/model/catalogue"
	"materials-service/pkg/jsondoc"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrDuplicateID  = errors.New("duplicate file id")
)

// CatalogueRepo owns the catalogue document. All access goes through one
// mutex: every mutation is a read-modify-write of the whole in-memory
// catalogue followed by an atomic rewrite of the document, so concurrent
// writers serialize instead of clobbering each other.
type CatalogueRepo struct {
	path string

	mu   sync.Mutex
	data catalogue.Catalogue
}

// New loads the catalogue document at path, seeding the known subjects when
// the document does not exist yet.
func New(path string) (*CatalogueRepo, error) {
	r := &CatalogueRepo{path: path}
	if !jsondoc.Exists(path) {
		r.data = catalogue.NewCatalogue()
		if err := jsondoc.Save(path, r.data); err != nil {
			return nil, fmt.Errorf("failed to seed catalogue: %w", err)
		}
		return r, nil
	}
	if err := jsondoc.Load(path, &r.data); err != nil {
		return nil, err
	}
	if r.data == nil {
		r.data = catalogue.Catalogue{}
	}
	return r, nil
}

// GetAll returns a snapshot of the whole catalogue.
func (r *CatalogueRepo) GetAll(_ context.Context) catalogue.Catalogue {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(catalogue.Catalogue, len(r.data))
	for subject, files := range r.data {
		snapshot[subject] = copySubjectFiles(files)
	}
	return snapshot
}

// GetBucket returns one bucket. Unknown subject or module type reads as an
// empty bucket, never an error.
func (r *CatalogueRepo) GetBucket(_ context.Context, subject string, module catalogue.ModuleType) []catalogue.FileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, ok := r.data[subject]
	if !ok {
		return []catalogue.FileRecord{}
	}
	return copyBucket(files[module])
}

// GetSubjectFiles returns all three buckets of a subject, empty for a subject
// the catalogue has not seen yet.
func (r *CatalogueRepo) GetSubjectFiles(_ context.Context, subject string) catalogue.SubjectFiles {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, ok := r.data[subject]
	if !ok {
		return catalogue.NewSubjectFiles()
	}
	return copySubjectFiles(files)
}

// Append registers a record at the tail of a bucket, creating subject and
// module buckets on demand, and persists the document.
func (r *CatalogueRepo) Append(_ context.Context, subject string, module catalogue.ModuleType, record catalogue.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.containsID(record.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
	}

	files, ok := r.data[subject]
	if !ok {
		files = catalogue.NewSubjectFiles()
		r.data[subject] = files
	}
	files[module] = append(files[module], record)

	return r.persist()
}

// Rename updates the original name of the record with the given id, looked up
// within the named bucket only.
func (r *CatalogueRepo) Rename(_ context.Context, subject string, module catalogue.ModuleType, id uuid.UUID, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, i := r.find(subject, module, id)
	if i < 0 {
		return ErrFileNotFound
	}
	bucket[i].OriginalName = newName

	return r.persist()
}

// Remove deletes the record from its bucket and returns it, so the caller can
// delete the physical file by stored name.
func (r *CatalogueRepo) Remove(_ context.Context, subject string, module catalogue.ModuleType, id uuid.UUID) (catalogue.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, i := r.find(subject, module, id)
	if i < 0 {
		return catalogue.FileRecord{}, ErrFileNotFound
	}
	removed := bucket[i]
	r.data[subject][module] = append(bucket[:i], bucket[i+1:]...)

	if err := r.persist(); err != nil {
		return catalogue.FileRecord{}, err
	}
	return removed, nil
}

func (r *CatalogueRepo) persist() error {
	if err := jsondoc.Save(r.path, r.data); err != nil {
		return fmt.Errorf("failed to persist catalogue: %w", err)
	}
	return nil
}

func (r *CatalogueRepo) find(subject string, module catalogue.ModuleType, id uuid.UUID) ([]catalogue.FileRecord, int) {
	files, ok := r.data[subject]
	if !ok {
		return nil, -1
	}
	bucket := files[module]
	for i, record := range bucket {
		if record.ID == id {
			return bucket, i
		}
	}
	return nil, -1
}

// containsID scans every bucket: ids are unique across the whole catalogue,
// not just within one bucket.
func (r *CatalogueRepo) containsID(id uuid.UUID) bool {
	for _, files := range r.data {
		for _, bucket := range files {
			for _, record := range bucket {
				if record.ID == id {
					return true
				}
			}
		}
	}
	return false
}

func copyBucket(bucket []catalogue.FileRecord) []catalogue.FileRecord {
	out := make([]catalogue.FileRecord, len(bucket))
	copy(out, bucket)
	return out
}

func copySubjectFiles(files catalogue.SubjectFiles) catalogue.SubjectFiles {
	out := catalogue.NewSubjectFiles()
	for module, bucket := range files {
		out[module] = copyBucket(bucket)
	}
	return out
}
