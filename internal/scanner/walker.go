package scanner

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// IsSupported reports whether path looks like a scorecard document.
func IsSupported(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

func (s *Scanner) walkFiles() {
	defer close(s.jobs)

	err := filepath.WalkDir(s.cfg.RootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Printf("[BATCH] error accessing path %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !IsSupported(path) {
			return nil
		}

		select {
		case <-s.ctx.Done():
			return filepath.SkipAll
		case s.jobs <- models.Job{FilePath: path}:
		}
		return nil
	})

	if err != nil {
		log.Printf("[BATCH] error walking directory: %v", err)
	}
}
