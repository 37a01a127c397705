// Package report persists sequence comparison reports as YAML files, one
// file per report, and lists them back per user.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"gelseq/internal/models"
)

// ErrNotFound is returned when a report does not exist for the user.
var ErrNotFound = errors.New("report not found")

const (
	filePrefix = "report-"
	fileSuffix = ".yaml"
)

// Report is one persisted comparison of two sequences.
type Report struct {
	ID         int    `yaml:"id" json:"id"`
	User       string `yaml:"user" json:"user"`
	Image1Name string `yaml:"image1Name" json:"image1Name"`
	Image2Name string `yaml:"image2Name" json:"image2Name"`
	Sequence1  string `yaml:"sequence1" json:"sequence1"`
	Sequence2  string `yaml:"sequence2" json:"sequence2"`

	PeakMatchPercentage           float64 `yaml:"peakMatchPercentage" json:"peakMatchPercentage"`
	PrefixFunctionMatchPercentage float64 `yaml:"prefixFunctionMatchPercentage" json:"prefixFunctionMatchPercentage"`
	RollingHashMatchPercentage    float64 `yaml:"rollingHashMatchPercentage" json:"rollingHashMatchPercentage"`

	PrefixFunctionTime time.Duration `yaml:"prefixFunctionTime" json:"prefixFunctionTime"`
	RollingHashTime    time.Duration `yaml:"rollingHashTime" json:"rollingHashTime"`

	CreatedAt time.Time `yaml:"createdAt" json:"createdAt"`
}

// NewReport builds an unsaved report from a comparison of seq1 (subject)
// and seq2 (query).
func NewReport(user, image1, image2, seq1, seq2 string, cmp models.Comparison) *Report {
	return &Report{
		User:                          user,
		Image1Name:                    image1,
		Image2Name:                    image2,
		Sequence1:                     seq1,
		Sequence2:                     seq2,
		PeakMatchPercentage:           cmp.PositionalMatch,
		PrefixFunctionMatchPercentage: cmp.PrefixFunction.MatchPercentage,
		RollingHashMatchPercentage:    cmp.RollingHash.MatchPercentage,
		PrefixFunctionTime:            cmp.PrefixFunction.Elapsed,
		RollingHashTime:               cmp.RollingHash.Elapsed,
	}
}

// Store keeps reports in a directory. It is safe for concurrent use by the
// goroutines of one process.
type Store struct {
	dir string

	mu     sync.Mutex
	nextID int
}

// Open creates dir if needed and continues numbering after the highest
// report already in it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	ids, err := listIDs(dir)
	if err != nil {
		return nil, err
	}

	s := &Store{dir: dir, nextID: 1}
	if len(ids) > 0 {
		s.nextID = ids[len(ids)-1] + 1
	}
	return s, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save assigns r the next ID, stamps its creation time if unset and writes it.
func (s *Store) Save(r *Report) error {
	if r.User == "" {
		return fmt.Errorf("report has no user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	// Write to a temporary file first so a crash never leaves half a report
	tmp, err := os.CreateTemp(s.dir, ".tmp-report-*")
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(r.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error storing report: %w", err)
	}

	s.nextID++
	return nil
}

// Get returns report id if it belongs to user.
func (s *Store) Get(user string, id int) (*Report, error) {
	r, err := s.load(id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.User != user {
		return nil, ErrNotFound
	}
	return r, nil
}

// List returns the user's reports in ascending ID order.
func (s *Store) List(user string) ([]*Report, error) {
	ids, err := listIDs(s.dir)
	if err != nil {
		return nil, err
	}

	reports := []*Report{}
	for _, id := range ids {
		r, err := s.load(id)
		if err != nil {
			return nil, err
		}
		if r.User == user {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func (s *Store) path(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%06d%s", filePrefix, id, fileSuffix))
}

func (s *Store) load(id int) (*Report, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("error parsing report %d: %w", id, err)
	}
	return &r, nil
}

// listIDs returns the IDs of the report files in dir, ascending.
func listIDs(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var ids []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
