package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

// fileDocument is the on-disk form used by FileStore
type fileDocument struct {
	Responses models.SurveyResponse `json:"responses"`
	ExpiresAt time.Time             `json:"expires_at"`
}

const fileSchema = `{
	"type": "object",
	"required": ["responses", "expires_at"],
	"properties": {
		"responses": {"type": "object", "additionalProperties": {"type": "string"}},
		"expires_at": {"type": "string", "format": "date-time"}
	}
}`

var fileSchemaLoader = gojsonschema.NewStringLoader(fileSchema)

// FileStore keeps the survey response in a JSON file with the same expiry rule as the cookie
type FileStore struct {
	path    string
	ttlDays int
	logger  *observability.Logger
	now     func() time.Time
}

// DefaultFilePath returns preferences.json under the user's config directory
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", contextutils.WrapError(err, "failed to locate user config directory")
	}
	return filepath.Join(dir, "spotfinder", "preferences.json"), nil
}

// NewFileStore creates a store at path. ttlDays <= 0 uses the default of 30.
func NewFileStore(path string, ttlDays int, logger *observability.Logger) *FileStore {
	if ttlDays <= 0 {
		ttlDays = config.PreferenceCookieTTLDays
	}
	return &FileStore{path: path, ttlDays: ttlDays, logger: logger, now: time.Now}
}

// Path returns the file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file; a missing, expired or malformed file yields nil
func (s *FileStore) Load(ctx context.Context) models.SurveyResponse {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(ctx, "Failed to read preferences file", map[string]interface{}{"path": s.path, "error": err.Error()})
		}
		return nil
	}

	if err := validateAgainst(fileSchemaLoader, data); err != nil {
		s.logMalformed(ctx, &MalformedStateError{Source: "preferences file", Cause: err})
		return nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logMalformed(ctx, &MalformedStateError{Source: "preferences file", Cause: err})
		return nil
	}

	if !s.now().Before(doc.ExpiresAt) {
		s.logger.Debug(ctx, "Saved preferences expired", map[string]interface{}{"expires_at": doc.ExpiresAt.Format(time.RFC3339)})
		return nil
	}
	return doc.Responses.Clone()
}

// Save writes the file through a temporary file and rename
func (s *FileStore) Save(ctx context.Context, prefs models.SurveyResponse) error {
	doc := fileDocument{
		Responses: prefs.Clone(),
		ExpiresAt: s.now().Add(time.Duration(s.ttlDays) * 24 * time.Hour).UTC(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return contextutils.WrapError(err, "failed to encode preferences")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return contextutils.WrapErrorf(err, "failed to create %s", filepath.Dir(s.path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*.json")
	if err != nil {
		return contextutils.WrapError(err, "failed to create temporary preferences file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return contextutils.WrapError(err, "failed to write preferences")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return contextutils.WrapError(err, "failed to write preferences")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return contextutils.WrapError(err, "failed to replace preferences file")
	}

	s.logger.Debug(ctx, "Saved preferences file", map[string]interface{}{"path": s.path})
	return nil
}

func (s *FileStore) logMalformed(ctx context.Context, err error) {
	s.logger.Debug(ctx, "Ignoring unreadable preferences file", map[string]interface{}{
		"path":  s.path,
		"error": err.Error(),
		"code":  string(contextutils.ErrorCodeMalformedState),
	})
}
