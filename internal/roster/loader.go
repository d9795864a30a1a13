package roster

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gift-exchange/internal/model"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// fileLoader implements Loader for rosters on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based roster loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "roster-loader").Logger(),
	}
}

// Load reads a roster file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) (*model.Roster, error) {
	l.logger.Info().Str("file", path).Msg("loading roster file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open roster file")
		return nil, fmt.Errorf("failed to open roster file %s: %w", path, err)
	}
	defer file.Close()

	roster, err := decodeFile(file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode roster file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("participants", len(roster.Participants)).
		Msg("roster file loaded successfully")

	return roster, nil
}

// decodeFile decodes r, decompressing it first when name ends in .gz.
func decodeFile(r io.Reader, name string) (*model.Roster, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	roster, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode roster %s: %w", name, err)
	}
	return roster, nil
}

// Decode parses a YAML roster. JSON is accepted as well since it is valid YAML.
// Unknown keys are rejected so typos in field names do not silently drop
// exclusions.
func Decode(r io.Reader) (*model.Roster, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var roster model.Roster
	if err := decoder.Decode(&roster); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("roster is empty")
		}
		return nil, err
	}

	return &roster, nil
}
