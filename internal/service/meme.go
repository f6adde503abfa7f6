package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type MemeService struct {
	memes    MemeStore
	storage  ObjectStorage
	cache    FeedCache
	maxBytes int64
	logger   *zerolog.Logger
}

func NewMemeService(memes MemeStore, storage ObjectStorage, cache FeedCache, maxBytes int64, logger *zerolog.Logger) *MemeService {
	return &MemeService{
		memes:    memes,
		storage:  storage,
		cache:    cache,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// CreateMeme stores the image under <user_id>/<uuid>.<ext> in the memes
// bucket and inserts the meme row pointing at its public URL.
func (s *MemeService) CreateMeme(ctx context.Context, userID uuid.UUID, image *FileUpload, caption string) (*model.Meme, error) {
	if image == nil {
		return nil, errs.NewBadRequestError("Image is required.", true, nil,
			[]errs.FieldError{{Field: "image", Error: "Image is required."}}, nil)
	}

	data, mime, err := readFile(image, s.maxBytes)
	if err != nil {
		return nil, err
	}
	if !mimetype.EqualsAny(mime.String(), memeImageTypes...) {
		return nil, errs.NewBadRequestError("Only PNG, JPEG, GIF and WebP images are allowed.", true, nil,
			[]errs.FieldError{{Field: "image", Error: "Unsupported image type."}}, nil)
	}

	path := fmt.Sprintf("%s/%s%s", userID, uuid.New(), mime.Extension())
	if err := s.storage.Upload(ctx, path, mime.String(), bytes.NewReader(data)); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("meme image upload failed")
		return nil, errs.NewInternalServerErrorWithMessage("Upload failed")
	}

	meme, err := s.memes.Create(ctx, &model.Meme{
		CreatorID:   userID,
		ImageURL:    s.storage.PublicURL(path),
		StoragePath: path,
		Caption:     model.OptionalString(caption),
	})
	if err != nil {
		s.removeObject(ctx, path)
		return nil, err
	}

	s.invalidateFeed(ctx)
	metrics.RecordEvent(metrics.EventMemeCreated)
	return meme, nil
}

func (s *MemeService) GetMeme(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Meme, error) {
	return s.memes.GetByID(ctx, id, viewerID)
}

// DeleteMeme deletes a meme owned by userID. A meme owned by someone else
// is reported as not found.
func (s *MemeService) DeleteMeme(ctx context.Context, userID, id uuid.UUID) error {
	meme, err := s.memes.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	s.removeObject(ctx, meme.StoragePath)
	s.invalidateFeed(ctx)
	metrics.RecordEvent(metrics.EventMemeDeleted)
	return nil
}

func (s *MemeService) removeObject(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.storage.Remove(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove meme image")
	}
}

func (s *MemeService) invalidateFeed(ctx context.Context) {
	invalidateFeed(ctx, s.cache, s.logger)
}
