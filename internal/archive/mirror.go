package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"coverage-miner/internal/utils"
	"coverage-miner/pkg/logger"
)

// MirroredStore writes archives locally and copies them to a RemoteStore. Extraction falls
// back to the remote copy when the local one is missing.
type MirroredStore struct {
	local  *LocalStore
	remote RemoteStore
	logger logger.Logger
}

func NewMirroredStore(local *LocalStore, remote RemoteStore, logger logger.Logger) *MirroredStore {
	return &MirroredStore{local: local, remote: remote, logger: logger}
}

// Save fails only when the local archive cannot be written; a failed upload is logged.
func (m *MirroredStore) Save(ctx context.Context, name, srcDir string) (string, error) {
	localPath, err := m.local.Save(ctx, name, srcDir)
	if err != nil {
		return "", err
	}
	if err := m.remote.Upload(ctx, filepath.Base(localPath), localPath); err != nil {
		m.logger.Warn("failed to mirror archive %s: %v", name, err)
	}
	return localPath, nil
}

func (m *MirroredStore) Extract(ctx context.Context, name, destDir string) error {
	if !m.local.Has(name) {
		localPath := m.local.Path(name)
		if err := utils.EnsureDir(m.local.dir); err != nil {
			return err
		}
		if err := m.remote.Download(ctx, filepath.Base(localPath), localPath); err != nil {
			return fmt.Errorf("failed to fetch archive %s: %w", name, err)
		}
		m.logger.Info("fetched archive %s from mirror", name)
	}
	return m.local.Extract(ctx, name, destDir)
}
