// Package guidelines loads and queries the clinical-recommendations knowledge base.
package guidelines

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/clinrec/guidelines-api/guidelines/entities"
	"github.com/clinrec/guidelines-api/interfaces"
	"github.com/clinrec/guidelines-api/logging"
)

// Compile-time check to ensure Loader implements KnowledgeLoader interface
var _ interfaces.KnowledgeLoader = (*Loader)(nil)

// Loader reads the knowledge base from a JSON file on disk.
type Loader struct {
	path string
}

// NewLoader creates a Loader for the given knowledge file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the knowledge file location.
func (l *Loader) Path() string {
	return l.path
}

// ModTime returns the knowledge file's last modification time.
func (l *Loader) ModTime() (time.Time, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat knowledge file %s: %w", l.path, err)
	}
	return info.ModTime(), nil
}

// Load reads and decodes the knowledge file. A document without diseases is
// treated as a load failure so the caller can report the knowledge base as
// unavailable instead of serving an empty tree.
func (l *Loader) Load() ([]entities.Disease, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file %s: %w", l.path, err)
	}

	// Some legacy exports are Windows-1251 encoded, the rest are UTF-8
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode knowledge file %s: %w", l.path, err)
		}
		raw = decoded
	}

	var doc entities.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file %s: %w", l.path, err)
	}
	if len(doc.Diseases) == 0 {
		return nil, fmt.Errorf("knowledge file %s contains no diseases", l.path)
	}

	logging.Debug("Knowledge file loaded", "path", l.path, "diseases", len(doc.Diseases))
	return doc.Diseases, nil
}
