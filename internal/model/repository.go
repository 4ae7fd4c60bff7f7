package model

import (
	"math"
	"strconv"
	"strings"
)

// RepositoryRecord is one append-only row of repositories.csv.
type RepositoryRecord struct {
	ID      int64   `csv:"id" json:"id"`
	Name    string  `csv:"name" json:"name"`
	Tag     string  `csv:"tag" json:"tag"`
	Project string  `csv:"project" json:"project"`
	Root    string  `csv:"root" json:"root"`
	Status  string  `csv:"status" json:"status"`
	Time    Seconds `csv:"time" json:"time"`
}

// NewRepositoryRecord returns a record with every optional field unknown.
func NewRepositoryRecord(id int64, name string) *RepositoryRecord {
	return &RepositoryRecord{
		ID:      id,
		Name:    name,
		Tag:     NotAvailable,
		Project: string(ProjectUnknown),
		Root:    NotAvailable,
		Status:  NotAvailable,
	}
}

// Succeeded reports whether the repository was mined successfully.
func (r *RepositoryRecord) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Seconds is a build duration that may be unknown. Unknown renders as NaN.
type Seconds struct {
	Value int
	Valid bool
}

// SecondsOf returns a known duration.
func SecondsOf(v int) Seconds {
	return Seconds{Value: v, Valid: true}
}

func (s Seconds) String() string {
	if !s.Valid {
		return "NaN"
	}
	return strconv.Itoa(s.Value)
}

// Float returns the duration, NaN when unknown.
func (s Seconds) Float() float64 {
	if !s.Valid {
		return math.NaN()
	}
	return float64(s.Value)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (s Seconds) MarshalCSV() (string, error) {
	return s.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. Empty, NaN and N/A read as unknown.
func (s *Seconds) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "nan", "n/a":
		*s = Seconds{}
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*s = SecondsOf(int(math.Ceil(f)))
	return nil
}

// ReformatRepoName turns "owner/name" into a filesystem-safe key, e.g. "repo__google_guava".
func ReformatRepoName(name string) string {
	return RepoArchivePrefix + strings.ReplaceAll(name, "/", "_")
}
