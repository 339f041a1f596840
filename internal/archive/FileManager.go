package archive

import (
	"fmt"
	json "github.com/goccy/go-json"
	"livepoll/internal/archive/interfaces"
	"livepoll/internal/models"
	"livepoll/internal/providers"
	"os"
	"path/filepath"
	"time"
)

const FileExt = ".json.zst"

// FileManager turns the poll's audit state into zstd-compressed JSON and
// writes it to disk. Archives are write-only; nothing is restored at start.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.ArchiverInterface {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) Encode(state *models.ArchiveState) ([]byte, error) {
	jsonData, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode archive: %w", err)
	}
	return f.compressor.Compress(jsonData)
}

// Decode reads an archive back for offline inspection. The server itself
// never restores from an archive.
func (f *FileManager) Decode(data []byte) (*models.ArchiveState, error) {
	raw, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}
	var state models.ArchiveState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	return &state, nil
}

func FileName(state *models.ArchiveState) string {
	return fmt.Sprintf("livepoll-%d-s%d%s", state.ExportedAtMs, state.Current.ID, FileExt)
}

// SaveToDir writes the archive atomically and returns its path.
func (f *FileManager) SaveToDir(dir string, state *models.ArchiveState) (string, error) {
	start := time.Now()
	defer func() { f.metrics.ObserveArchiveDuration(time.Since(start)) }()

	data, err := f.Encode(state)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	fileName := filepath.Join(dir, FileName(state))
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return "", err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return "", err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return "", err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return "", err
	}
	f.logger.Infof(providers.TypeAdmin, "Archived %d votes and %d comments to %s", len(state.Votes), len(state.Comments), fileName)
	return fileName, nil
}
