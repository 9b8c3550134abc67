// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wishvault/wishsync/models"
)

const (
	// backupLimit caps the rotating backup history.
	backupLimit = 10

	backupPrefix = "wishes-"
	backupSuffix = ".json"

	// backupTimeFormat embeds a sortable UTC timestamp in the filename so
	// lexicographic order equals chronological order. Millisecond precision
	// keeps rapid consecutive backups from colliding.
	backupTimeFormat = "20060102T150405.000Z"
)

// BackupStore keeps timestamped snapshots of the local document in a single
// directory and prunes the history down to the newest backupLimit entries.
// Write-then-list-then-prune is strictly ordered; concurrent backup calls
// are not supported.
type BackupStore struct {
	dir string
}

// NewBackupStore returns a BackupStore rooted at dir. The directory is
// created lazily on the first write.
func NewBackupStore(dir string) *BackupStore {
	return &BackupStore{dir: dir}
}

// Write snapshots doc under a timestamp-derived name and prunes older
// entries beyond the cap. The snapshot path is returned even when pruning
// fails, so callers can always surface it.
func (b *BackupStore) Write(doc models.SyncDocument, now time.Time) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := backupPrefix + now.UTC().Format(backupTimeFormat) + backupSuffix
	path := filepath.Join(b.dir, name)

	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", name, err)
	}

	if err := b.prune(); err != nil {
		return path, fmt.Errorf("prune backups: %w", err)
	}

	return path, nil
}

// List returns the backup filenames ordered newest first.
func (b *BackupStore) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		names = append(names, name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (b *BackupStore) prune() error {
	names, err := b.List()
	if err != nil {
		return err
	}

	for _, name := range names[min(len(names), backupLimit):] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			return fmt.Errorf("remove old backup %s: %w", name, err)
		}
	}

	return nil
}
