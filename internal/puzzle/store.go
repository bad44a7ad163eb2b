package puzzle

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

// DefaultStoreDir is where documents land unless overridden.
const DefaultStoreDir = "local_db/collections/crosswords"

// Store persists puzzle documents as one JSON file per generation
// outcome, successes and failures alike.
type Store struct {
	dir string
}

// NewStore creates the store directory if needed. An empty dir selects
// DefaultStoreDir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultStoreDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create puzzle store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the document and returns its ID. Empty ID and CreatedAt
// fields are assigned on the way out.
func (s *Store) Save(ctx context.Context, doc *Document) (string, error) {
	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = newDocumentID(now)
	}
	if doc.CreatedAt == "" {
		doc.CreatedAt = now.Format(time.RFC3339)
	}
	data, err := doc.Encode()
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, doc.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write puzzle document: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Crossword document saved.", "id", doc.ID, "status", doc.Status)
	return doc.ID, nil
}

func newDocumentID(now time.Time) string {
	var buf [4]byte
	if _, err := crand.Read(buf[:]); err != nil {
		binary.BigEndian.PutUint32(buf[:], uint32(now.UnixNano()))
	}
	return fmt.Sprintf("%s_%s", now.Format("20060102T150405"), hex.EncodeToString(buf[:]))
}
