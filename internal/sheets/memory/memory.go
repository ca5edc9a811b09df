// Package memory is an in-process sheets.Spreadsheet for development and
// tests.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/partio/internal/sheets"
)

var _ sheets.Spreadsheet = (*Sheet)(nil)

// Sheet keeps tabs as string matrices.
type Sheet struct {
	mu     sync.Mutex
	tabs   map[string][][]string
	writes int
}

// New returns an empty Sheet.
func New() *Sheet {
	return &Sheet{tabs: make(map[string][][]string)}
}

// ReadRows returns a copy of the rows of tab.
func (s *Sheet) ReadRows(_ context.Context, tab string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.tabs[tab]), nil
}

// WriteRows replaces the rows of tab.
func (s *Sheet) WriteRows(_ context.Context, tab string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[tab] = copyRows(rows)
	s.writes++
	return nil
}

// Writes reports how many WriteRows calls succeeded.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
