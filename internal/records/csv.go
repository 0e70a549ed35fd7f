package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

const (
	collegesFileName     = "colleges.csv"
	scholarshipsFileName = "scholarships.csv"
	deadlineLayout       = "2006-01-02"
)

var collegeColumns = []string{"name", "tuition", "sat_avg", "acceptance_rate", "location", "size"}
var scholarshipColumns = []string{"name", "amount", "gpa_min", "major", "deadline"}

// LoadColleges parses a college CSV. Malformed rows are rejected at this
// boundary with the row number in the error; the engine never sees them.
func LoadColleges(r io.Reader) ([]types.CollegeRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("failed to read colleges header: %v", err))
	}
	if err := checkHeader(header, collegeColumns); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var colleges []types.CollegeRecord
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("colleges row %d: %v", row, err))
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("colleges row %d: empty name", row))
		}
		if seen[name] {
			return nil, errors.NewValidationError(fmt.Sprintf("colleges row %d: duplicate name %q", row, name))
		}
		seen[name] = true

		tuition, err := parseFloat(record[1], row, "tuition")
		if err != nil {
			return nil, err
		}
		satAvg, err := parseFloat(record[2], row, "sat_avg")
		if err != nil {
			return nil, err
		}
		acceptanceRate, err := parseFloat(record[3], row, "acceptance_rate")
		if err != nil {
			return nil, err
		}
		if acceptanceRate < 0 || acceptanceRate > 1 {
			return nil, errors.NewValidationError(
				fmt.Sprintf("colleges row %d: acceptance_rate %v outside [0,1]", row, acceptanceRate))
		}
		if tuition < 0 || satAvg < 0 {
			return nil, errors.NewValidationError(
				fmt.Sprintf("colleges row %d: negative numeric field", row))
		}

		size := types.Size(strings.TrimSpace(record[5]))
		if !types.ValidSize(size) {
			return nil, errors.NewValidationError(
				fmt.Sprintf("colleges row %d: unknown size %q", row, record[5]))
		}

		colleges = append(colleges, types.CollegeRecord{
			Name:           name,
			Tuition:        tuition,
			SATAvg:         satAvg,
			AcceptanceRate: acceptanceRate,
			Location:       strings.TrimSpace(record[4]),
			Size:           size,
		})
	}

	return colleges, nil
}

// LoadScholarships parses a scholarship CSV with ISO deadlines.
func LoadScholarships(r io.Reader) ([]types.ScholarshipRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("failed to read scholarships header: %v", err))
	}
	if err := checkHeader(header, scholarshipColumns); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var scholarships []types.ScholarshipRecord
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("scholarships row %d: %v", row, err))
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("scholarships row %d: empty name", row))
		}
		if seen[name] {
			return nil, errors.NewValidationError(fmt.Sprintf("scholarships row %d: duplicate name %q", row, name))
		}
		seen[name] = true

		amount, err := parseFloat(record[1], row, "amount")
		if err != nil {
			return nil, err
		}
		gpaMin, err := parseFloat(record[2], row, "gpa_min")
		if err != nil {
			return nil, err
		}
		if amount < 0 || gpaMin < 0 {
			return nil, errors.NewValidationError(
				fmt.Sprintf("scholarships row %d: negative numeric field", row))
		}

		deadline, err := time.Parse(deadlineLayout, strings.TrimSpace(record[4]))
		if err != nil {
			return nil, errors.NewValidationError(
				fmt.Sprintf("scholarships row %d: unparseable deadline %q", row, record[4]))
		}

		scholarships = append(scholarships, types.ScholarshipRecord{
			Name:     name,
			Amount:   amount,
			GPAMin:   gpaMin,
			Major:    strings.TrimSpace(record[3]),
			Deadline: deadline,
		})
	}

	return scholarships, nil
}

func checkHeader(header, expected []string) error {
	if len(header) != len(expected) {
		return errors.NewValidationError(
			fmt.Sprintf("expected columns %v, got %d columns", expected, len(header)))
	}
	for i, col := range expected {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return errors.NewValidationError(
				fmt.Sprintf("expected column %d to be %q, got %q", i+1, col, header[i]))
		}
	}
	return nil
}

func parseFloat(raw string, row int, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.NewValidationError(
			fmt.Sprintf("row %d: non-numeric %s %q", row, field, raw))
	}
	return v, nil
}

// loadCollegesFile reads colleges.csv from dataDir, falling back to the
// bundled samples when the file is absent.
func loadCollegesFile(dataDir string) ([]types.CollegeRecord, error) {
	file, err := os.Open(dataDirJoin(dataDir, collegesFileName))
	if os.IsNotExist(err) {
		return sampleColleges(), nil
	}
	if err != nil {
		return nil, errors.NewConfigurationError("failed to open colleges.csv", err)
	}
	defer file.Close()
	return LoadColleges(file)
}

// loadScholarshipsFile reads scholarships.csv from dataDir, falling back
// to the bundled samples when the file is absent.
func loadScholarshipsFile(dataDir string) ([]types.ScholarshipRecord, error) {
	file, err := os.Open(dataDirJoin(dataDir, scholarshipsFileName))
	if os.IsNotExist(err) {
		return sampleScholarships(), nil
	}
	if err != nil {
		return nil, errors.NewConfigurationError("failed to open scholarships.csv", err)
	}
	defer file.Close()
	return LoadScholarships(file)
}

func sampleColleges() []types.CollegeRecord {
	return []types.CollegeRecord{
		{Name: "State University", Tuition: 25000, SATAvg: 1250, AcceptanceRate: 0.65, Location: "CA", Size: types.SizeLarge},
		{Name: "Tech Institute", Tuition: 45000, SATAvg: 1450, AcceptanceRate: 0.25, Location: "MA", Size: types.SizeMedium},
		{Name: "Liberal Arts College", Tuition: 35000, SATAvg: 1350, AcceptanceRate: 0.45, Location: "NY", Size: types.SizeSmall},
		{Name: "Community College", Tuition: 8000, SATAvg: 1050, AcceptanceRate: 0.90, Location: "TX", Size: types.SizeMedium},
		{Name: "Elite University", Tuition: 55000, SATAvg: 1520, AcceptanceRate: 0.15, Location: "CT", Size: types.SizeLarge},
	}
}

func sampleScholarships() []types.ScholarshipRecord {
	mustDate := func(s string) time.Time {
		d, err := time.Parse(deadlineLayout, s)
		if err != nil {
			panic(err)
		}
		return d
	}
	return []types.ScholarshipRecord{
		{Name: "Merit Excellence Scholarship", Amount: 5000, GPAMin: 3.5, Major: "Any", Deadline: mustDate("2027-03-15")},
		{Name: "STEM Leadership Award", Amount: 10000, GPAMin: 3.7, Major: "STEM", Deadline: mustDate("2027-02-28")},
		{Name: "Community Service Grant", Amount: 2500, GPAMin: 3.0, Major: "Any", Deadline: mustDate("2027-04-01")},
		{Name: "Engineering Innovation Prize", Amount: 7500, GPAMin: 3.8, Major: "Engineering", Deadline: mustDate("2027-03-30")},
		{Name: "Liberal Arts Excellence", Amount: 4000, GPAMin: 3.4, Major: "Liberal Arts", Deadline: mustDate("2027-05-15")},
	}
}
