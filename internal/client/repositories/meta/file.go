package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osobist/wikisync/internal/client/models"
)

// FileRepository keeps metadata in a "<document path>.meta" JSON sidecar.
// The docID is the document's filesystem path; an empty docID marks an
// ephemeral (never saved) document, for which every operation is a no-op —
// such documents have no place to park a sidecar.
type FileRepository struct{}

var _ Repository = (*FileRepository)(nil)

func NewFileRepository() *FileRepository { return &FileRepository{} }

func sidecarPath(docID string) string { return docID + ".meta" }

func (r *FileRepository) Load(ctx context.Context, docID string) (models.ArticleMeta, error) {
	if docID == "" {
		return models.ArticleMeta{}, nil
	}

	data, err := os.ReadFile(sidecarPath(docID))
	if os.IsNotExist(err) {
		return models.ArticleMeta{}, nil
	}
	if err != nil {
		return models.ArticleMeta{}, fmt.Errorf("reading sidecar: %w", err)
	}

	var m models.ArticleMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return models.ArticleMeta{}, fmt.Errorf("parsing sidecar: %w", err)
	}
	return m, nil
}

func (r *FileRepository) Save(ctx context.Context, docID string, value models.ArticleMeta) error {
	if docID == "" {
		return nil
	}

	current, err := r.Load(ctx, docID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(current.Merge(value))
	if err != nil {
		return err
	}
	// temp+rename keeps the pageID/fingerprint pair atomic on disk
	return writeFileAtomic(sidecarPath(docID), data, 0o644)
}

func (r *FileRepository) Migrate(ctx context.Context, oldID, newID string) error {
	if oldID == "" || newID == "" {
		return nil
	}
	err := os.Rename(sidecarPath(oldID), sidecarPath(newID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (r *FileRepository) Delete(ctx context.Context, docID string) error {
	if docID == "" {
		return nil
	}
	err := os.Remove(sidecarPath(docID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
