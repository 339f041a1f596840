package interfaces

import "livepoll/internal/models"

type ArchiverInterface interface {
	Encode(state *models.ArchiveState) ([]byte, error)
	SaveToDir(dir string, state *models.ArchiveState) (string, error)
}
