package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
)

// LocalAttachmentStore keeps uploaded talk files on the local disk under a
// single root directory. Remove tolerates files that are already gone.
type LocalAttachmentStore struct {
	root   string
	logger *slog.Logger
}

func NewLocalAttachmentStore(root string, logger *slog.Logger) *LocalAttachmentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalAttachmentStore{
		root:   root,
		logger: logger,
	}
}

func (s *LocalAttachmentStore) Remove(ctx context.Context, ref entities.AttachmentRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ref.Kind != entities.AttachmentKindFile || strings.TrimSpace(ref.Path) == "" {
		return nil
	}

	target, err := s.resolve(ref.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove attachment %s: %w", ref.Path, err)
	}

	s.logger.Info("attachment removed",
		"event", "attachment_removed",
		"module", "safety-training/talk-service",
		"layer", "adapter",
		"path", ref.Path,
	)
	return nil
}

// resolve joins the relative path under root and rejects traversal outside it.
func (s *LocalAttachmentStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(path)))
	root := filepath.Clean(s.root)
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return "", fmt.Errorf("attachment path %q escapes storage root", path)
	}
	return cleaned, nil
}
