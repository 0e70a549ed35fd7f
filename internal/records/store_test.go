package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/collegecompass/college-compass/internal/errors"
)

func TestNewRecordStoreFallsBackToSamples(t *testing.T) {
	store, err := NewRecordStore(t.TempDir())
	require.NoError(t, err)

	colleges, scholarships := store.Counts()
	assert.Equal(t, 5, colleges)
	assert.Equal(t, 5, scholarships)
}

func TestNewRecordStoreReadsCSVFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, collegesFileName), []byte(collegesCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, scholarshipsFileName), []byte(scholarshipsCSV), 0644))

	store, err := NewRecordStore(dir)
	require.NoError(t, err)

	colleges, scholarships := store.Counts()
	assert.Equal(t, 2, colleges)
	assert.Equal(t, 2, scholarships)
}

func TestNewRecordStoreRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, collegesFileName),
		[]byte("name,tuition,sat_avg,acceptance_rate,location,size\nBad U,oops,1,0.5,CA,Large\n"), 0644))

	_, err := NewRecordStore(dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCollegeLookup(t *testing.T) {
	store, err := NewRecordStore(t.TempDir())
	require.NoError(t, err)

	college, err := store.College("State University")
	require.NoError(t, err)
	assert.Equal(t, 25000.0, college.Tuition)

	_, err = store.College("Hogwarts")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccessorsReturnCopies(t *testing.T) {
	store, err := NewRecordStore(t.TempDir())
	require.NoError(t, err)

	colleges := store.Colleges()
	colleges[0].Name = "Mutated"

	fresh := store.Colleges()
	assert.Equal(t, "State University", fresh[0].Name)
}

func TestReloadKeepsOldDataOnFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, collegesFileName), []byte(collegesCSV), 0644))

	store, err := NewRecordStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, collegesFileName),
		[]byte("name,tuition,sat_avg,acceptance_rate,location,size\nBad U,oops,1,0.5,CA,Large\n"), 0644))

	require.Error(t, store.Reload())

	colleges, _ := store.Counts()
	assert.Equal(t, 2, colleges, "failed reload must not clobber existing records")
}

func TestReloadPicksUpNewData(t *testing.T) {
	dir := t.TempDir()
	store, err := NewRecordStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, collegesFileName), []byte(collegesCSV), 0644))
	require.NoError(t, store.Reload())

	colleges, scholarships := store.Counts()
	assert.Equal(t, 2, colleges)
	assert.Equal(t, 5, scholarships, "missing scholarships file still falls back to samples")
}
