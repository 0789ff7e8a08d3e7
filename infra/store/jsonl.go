package store

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/microgrid/core/export"
)

// RotatingJSONLStore writes one JSON line per step with automatic rotation.
type RotatingJSONLStore struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
}

// NewRotatingJSONLStore creates a store with rotation options in megabytes and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) (*RotatingJSONLStore, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compress,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &RotatingJSONLStore{logger: lj, path: path}, nil
}

// Append writes a single record and triggers rotation if needed.
func (s *RotatingJSONLStore) Append(rec StepRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.logger.Write(append(b, '\n'))
	return err
}

// Export appends every step of the run.
func (s *RotatingJSONLStore) Export(ctx context.Context, run *export.Run) error {
	for _, r := range stepRecords(run) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Append(r); err != nil {
			return err
		}
	}
	return nil
}

// Query reads all log files including rotated ones. Uncompressed backups
// only; lines that fail to decode are skipped.
func (s *RotatingJSONLStore) Query(ctx context.Context, q StepQuery) ([]StepRecord, error) {
	_ = ctx
	files, err := filepath.Glob(s.path + "*")
	if err != nil {
		return nil, err
	}
	ext := filepath.Ext(s.path)
	base := s.path[:len(s.path)-len(ext)]
	backups, err := filepath.Glob(base + "-*" + ext)
	if err != nil {
		return nil, err
	}
	files = append(backups, files...)
	sort.Strings(files)
	seen := map[string]bool{}
	var res []StepRecord
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			var r StepRecord
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if q.match(r) {
				res = append(res, r)
			}
		}
		_ = file.Close()
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Time.Before(res[j].Time) })
	return res, nil
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error {
	return s.logger.Close()
}
