package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ensambla/ems-api/internal/application/allocation"
)

var _ allocation.SnapshotPublisher = (*FilePublisher)(nil)

// FilePublisher escribe snapshots de stock como JSON en disco, uno por
// componente (el archivo se sobreescribe con el último estado confirmado).
// Es un consumidor post-commit de mejor esfuerzo: el caso de uso lo invoca
// fuera de la transacción y solo registra en log si falla.
type FilePublisher struct {
	dir string
}

// NewFilePublisher construye el publisher; crea el directorio si no existe.
func NewFilePublisher(dir string) (*FilePublisher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de snapshots: %w", err)
	}
	return &FilePublisher{dir: dir}, nil
}

// Publish escribe el snapshot de forma atómica (archivo temporal + rename).
func (p *FilePublisher) Publish(s allocation.StockSnapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar snapshot: %w", err)
	}
	final := filepath.Join(p.dir, s.ComponentID+".json")
	tmp, err := os.CreateTemp(p.dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("crear archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("escribir snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cerrar snapshot: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publicar snapshot: %w", err)
	}
	return nil
}
