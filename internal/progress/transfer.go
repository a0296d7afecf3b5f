package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// ExportVersion is written into every export.
const ExportVersion = "1.0"

type exportEnvelope struct {
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Progress  map[int]ModuleProgress `json:"progress"`
}

type importEnvelope struct {
	Version  string          `json:"version"`
	Progress json.RawMessage `json:"progress"`
}

// Export serializes the current set as an indented, versioned document.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	env := exportEnvelope{
		Version:   ExportVersion,
		Timestamp: s.now().UTC(),
		Progress:  maps.Clone(s.records),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// Import merges the records of an exported document into the current set.
// Modules the document does not mention keep their state. Nothing changes
// when it fails with ErrInvalidFormat.
func (s *Store) Import(ctx context.Context, payload []byte) error {
	var env importEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if len(env.Progress) == 0 {
		return fmt.Errorf("%w: missing progress", ErrInvalidFormat)
	}

	set, err := decodeSet(env.Progress, s.catalog, s.now().UTC())
	if err != nil {
		return err
	}
	if len(set.skipped) > 0 {
		s.log.Warn(ctx, "import entries ignored", "keys", set.skipped)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.records, set.records)
	s.persist(ctx)
	s.log.Info(ctx, "progress imported", "user", s.userID, "version", env.Version, "modules", len(set.records))
	return nil
}
