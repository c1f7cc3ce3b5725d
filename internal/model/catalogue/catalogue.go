package catalogue

import (
	"time"

	"github.com/google/uuid"
)

// ModuleType is the category bucket a file belongs to.
type ModuleType string

const (
	ModuleLecture    ModuleType = "lecture"
	ModuleColloquium ModuleType = "colloquium"
	ModuleSeminar    ModuleType = "seminar"
)

func (m ModuleType) Valid() bool {
	switch m {
	case ModuleLecture, ModuleColloquium, ModuleSeminar:
		return true
	}
	return false
}

// KnownSubjects are seeded into an empty catalogue. New subjects may still be
// created implicitly on first upload.
var KnownSubjects = []string{
	"transport",
	"computer",
	"math",
	"economics",
	"azerbaijani",
	"english",
	"physical",
	"pedagogy",
	"agriculture",
	"history",
}

// FileRecord describes one uploaded document. StoredName is the generated
// on-disk name, OriginalName the user-supplied one shown in listings.
type FileRecord struct {
	ID           uuid.UUID `json:"id"`
	StoredName   string    `json:"filename"`
	OriginalName string    `json:"originalname"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// SubjectFiles holds the three module-type buckets of one subject. A subject
// that exists always carries all three keys, even when empty.
type SubjectFiles map[ModuleType][]FileRecord

// Catalogue maps subject code to its buckets.
type Catalogue map[string]SubjectFiles

func NewSubjectFiles() SubjectFiles {
	return SubjectFiles{
		ModuleLecture:    {},
		ModuleColloquium: {},
		ModuleSeminar:    {},
	}
}

// NewCatalogue returns a catalogue pre-populated with the known subjects.
func NewCatalogue() Catalogue {
	c := make(Catalogue, len(KnownSubjects))
	for _, subject := range KnownSubjects {
		c[subject] = NewSubjectFiles()
	}
	return c
}
