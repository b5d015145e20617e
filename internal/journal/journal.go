package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pingv2/ping-service/pkg/logger"
	"go.uber.org/zap"
)

// Entry is one recorded ping exchange, written before the store insert so
// a crash between the two can be recovered by replay.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal is a durable append-only log of ping exchanges, newline-delimited
// JSON, fsynced on every append.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func New(filePath string) (*Journal, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Append writes one entry and syncs it to disk before returning.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Journal: failed to marshal entry",
			zap.String("id", entry.ID),
			zap.Error(err),
		)
		return err
	}

	if _, err := j.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Journal: failed to write entry",
			zap.String("id", entry.ID),
			zap.Error(err),
		)
		return err
	}

	if err := j.file.Sync(); err != nil {
		logger.Log.Error("Journal: failed to sync to disk",
			zap.String("id", entry.ID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every entry currently in the journal.
func (j *Journal) ReadAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.readAllLocked()
}

// Compact drops entries whose IDs have been persisted to the store,
// rewriting the file atomically and reopening it for further appends.
func (j *Journal) Compact(persistedIDs []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.readAllLocked()
	if err != nil {
		return err
	}

	persisted := make(map[string]bool, len(persistedIDs))
	for _, id := range persistedIDs {
		persisted[id] = true
	}

	var remaining []Entry
	for _, entry := range entries {
		if !persisted[entry.ID] {
			remaining = append(remaining, entry)
		}
	}

	if err := j.file.Close(); err != nil {
		return err
	}

	tempPath := j.filePath + ".tmp"
	tmp, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	for _, entry := range remaining {
		data, err := json.Marshal(entry)
		if err != nil {
			tmp.Close()
			return err
		}
		if _, err := tmp.WriteString(string(data) + "\n"); err != nil {
			tmp.Close()
			return err
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tempPath, j.filePath); err != nil {
		return err
	}

	// Reopen with the same flags so appends keep working after compaction.
	file, err := os.OpenFile(j.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	j.file = file

	logger.Log.Info("Journal: compaction completed",
		zap.Int("before_count", len(entries)),
		zap.Int("remaining_count", len(remaining)),
	)

	return nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.file.Close()
}

func (j *Journal) readAllLocked() ([]Entry, error) {
	file, err := os.Open(j.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			// A torn final line from a crash is expected; skip it.
			logger.Log.Warn("Journal: skipping unreadable entry",
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
