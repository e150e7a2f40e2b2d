// Package fsutil provides filesystem helpers shared across the agent.
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes data to dir/name atomically via a temp file and rename.
// Readers never observe a partially-written file.
func WriteFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filepath.Join(dir, name), data, perm)
}
