package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"time"

	"trademind/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxSize   = 5 << 20
	DefaultBaseDir   = "./uploads"
	DefaultURLPrefix = "/static/uploads"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Service stores screenshots on local disk and records them in the database.
type Service struct {
	repo      Repository
	baseDir   string
	urlPrefix string
	maxSize   int64
	now       func() time.Time
	log       zerolog.Logger
}

func NewService(repo Repository, baseDir, urlPrefix string, maxSize int64) *Service {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{
		repo:      repo,
		baseDir:   baseDir,
		urlPrefix: urlPrefix,
		maxSize:   maxSize,
		now:       time.Now,
		log:       log.With().Str("component", "uploads").Logger(),
	}
}

func (s *Service) BaseDir() string   { return s.baseDir }
func (s *Service) URLPrefix() string { return s.urlPrefix }

// Upload validates an image, writes it under <base>/<user>/YYYY/MM and
// records it. The returned URL is what payment proofs and trades store as
// their screenshotUrl.
func (s *Service) Upload(ctx context.Context, userID string, fh *multipart.FileHeader) (*domain.Upload, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// Read one byte past the limit so a lying Size header is still caught.
	data, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	if !allowedMimeTypes[mt.String()] {
		return nil, ErrInvalidMimeType
	}

	now := s.now().UTC()
	id := uuid.NewString()
	relPath := path.Join(userID, fmt.Sprintf("%d/%02d", now.Year(), now.Month()), id+mt.Extension())
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, bytes.NewReader(data)); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write upload: %w", err)
	}

	u := &domain.Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: filepath.Base(fh.Filename),
		FilePath:     relPath,
		URL:          s.urlPrefix + "/" + relPath,
		MimeType:     mt.String(),
		Size:         int64(len(data)),
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		_ = os.Remove(absPath)
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("upload_id", id).Int64("size", u.Size).Msg("screenshot stored")
	return u, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Upload, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.UserID != userID {
		return nil, ErrNotOwner
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*domain.Upload, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes the record, then the file. A file already gone is not an error.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	u, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(u.FilePath))
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", absPath).Msg("failed to remove upload file")
	}
	return nil
}
