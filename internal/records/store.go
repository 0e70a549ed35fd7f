package records

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

func dataDirJoin(dataDir, name string) string {
	return filepath.Join(dataDir, name)
}

// RecordStore holds the loaded college and scholarship collections. Reads
// are concurrent; Reload swaps both collections atomically so a report
// never observes a half-updated record set.
type RecordStore struct {
	mu           sync.RWMutex
	dataDir      string
	colleges     []types.CollegeRecord
	scholarships []types.ScholarshipRecord
}

// NewRecordStore loads colleges.csv and scholarships.csv from dataDir.
// Missing files fall back to the bundled sample data; present but
// malformed files fail the load.
func NewRecordStore(dataDir string) (*RecordStore, error) {
	store := &RecordStore{dataDir: dataDir}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Reload re-reads both CSV files. On any error the previous collections
// are kept untouched.
func (s *RecordStore) Reload() error {
	colleges, err := loadCollegesFile(s.dataDir)
	if err != nil {
		return err
	}
	scholarships, err := loadScholarshipsFile(s.dataDir)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.colleges = colleges
	s.scholarships = scholarships
	s.mu.Unlock()
	return nil
}

// Colleges returns a copy of the college collection.
func (s *RecordStore) Colleges() []types.CollegeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.CollegeRecord, len(s.colleges))
	copy(out, s.colleges)
	return out
}

// Scholarships returns a copy of the scholarship collection.
func (s *RecordStore) Scholarships() []types.ScholarshipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ScholarshipRecord, len(s.scholarships))
	copy(out, s.scholarships)
	return out
}

// College looks up one college by its unique name.
func (s *RecordStore) College(name string) (types.CollegeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.colleges {
		if c.Name == name {
			return c, nil
		}
	}
	return types.CollegeRecord{}, errors.NewNotFoundError(fmt.Sprintf("college %q", name))
}

// Counts returns the size of both collections, for health reporting.
func (s *RecordStore) Counts() (colleges, scholarships int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.colleges), len(s.scholarships)
}
