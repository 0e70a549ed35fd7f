package records

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

const collegesCSV = `name,tuition,sat_avg,acceptance_rate,location,size
State University,25000,1250,0.65,CA,Large
Tech Institute,45000,1450,0.25,MA,Medium
`

const scholarshipsCSV = `name,amount,gpa_min,major,deadline
Merit Excellence Scholarship,5000,3.5,Any,2027-03-15
STEM Leadership Award,10000,3.7,STEM,2027-02-28
`

func TestLoadColleges(t *testing.T) {
	colleges, err := LoadColleges(strings.NewReader(collegesCSV))
	require.NoError(t, err)
	require.Len(t, colleges, 2)

	assert.Equal(t, types.CollegeRecord{
		Name:           "State University",
		Tuition:        25000,
		SATAvg:         1250,
		AcceptanceRate: 0.65,
		Location:       "CA",
		Size:           types.SizeLarge,
	}, colleges[0])
	assert.Equal(t, "Tech Institute", colleges[1].Name)
}

func TestLoadCollegesRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		errPart string
	}{
		{
			name:    "wrong header",
			csv:     "name,price,sat_avg,acceptance_rate,location,size\n",
			errPart: "expected column 2",
		},
		{
			name: "non-numeric tuition",
			csv: "name,tuition,sat_avg,acceptance_rate,location,size\n" +
				"Bad U,lots,1250,0.65,CA,Large\n",
			errPart: "row 2: non-numeric tuition",
		},
		{
			name: "acceptance rate out of range",
			csv: "name,tuition,sat_avg,acceptance_rate,location,size\n" +
				"Bad U,25000,1250,1.65,CA,Large\n",
			errPart: "outside [0,1]",
		},
		{
			name: "unknown size",
			csv: "name,tuition,sat_avg,acceptance_rate,location,size\n" +
				"Bad U,25000,1250,0.65,CA,Gigantic\n",
			errPart: "unknown size",
		},
		{
			name: "duplicate name",
			csv: "name,tuition,sat_avg,acceptance_rate,location,size\n" +
				"Twin U,25000,1250,0.65,CA,Large\n" +
				"Twin U,30000,1300,0.55,NY,Small\n",
			errPart: "row 3: duplicate name",
		},
		{
			name: "empty name",
			csv: "name,tuition,sat_avg,acceptance_rate,location,size\n" +
				",25000,1250,0.65,CA,Large\n",
			errPart: "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadColleges(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadScholarships(t *testing.T) {
	scholarships, err := LoadScholarships(strings.NewReader(scholarshipsCSV))
	require.NoError(t, err)
	require.Len(t, scholarships, 2)

	assert.Equal(t, "Merit Excellence Scholarship", scholarships[0].Name)
	assert.Equal(t, 5000.0, scholarships[0].Amount)
	assert.Equal(t, 3.5, scholarships[0].GPAMin)
	assert.Equal(t, "Any", scholarships[0].Major)
	assert.Equal(t, 2027, scholarships[0].Deadline.Year())
}

func TestLoadScholarshipsRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		errPart string
	}{
		{
			name: "unparseable deadline",
			csv: "name,amount,gpa_min,major,deadline\n" +
				"Bad Grant,5000,3.5,Any,March 15 2027\n",
			errPart: "unparseable deadline",
		},
		{
			name: "non-numeric amount",
			csv: "name,amount,gpa_min,major,deadline\n" +
				"Bad Grant,plenty,3.5,Any,2027-03-15\n",
			errPart: "non-numeric amount",
		},
		{
			name: "negative gpa_min",
			csv: "name,amount,gpa_min,major,deadline\n" +
				"Bad Grant,5000,-1,Any,2027-03-15\n",
			errPart: "negative numeric field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScholarships(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadEmptyFilesYieldEmptyCollections(t *testing.T) {
	colleges, err := LoadColleges(strings.NewReader("name,tuition,sat_avg,acceptance_rate,location,size\n"))
	require.NoError(t, err)
	assert.Empty(t, colleges)

	scholarships, err := LoadScholarships(strings.NewReader("name,amount,gpa_min,major,deadline\n"))
	require.NoError(t, err)
	assert.Empty(t, scholarships)
}
