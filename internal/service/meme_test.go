package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memeFixture struct {
	memes   *mockMemes
	storage *mockStorage
	cache   *mockFeedCache
	svc     *MemeService
}

func newMemeFixture() *memeFixture {
	f := &memeFixture{memes: &mockMemes{}, storage: &mockStorage{}, cache: &mockFeedCache{}}
	f.svc = NewMemeService(f.memes, f.storage, f.cache, 1<<20, &nopLogger)
	return f
}

func upload(name string, data []byte) *FileUpload {
	return &FileUpload{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func TestMemeService_CreateMeme(t *testing.T) {
	ctx := context.Background()
	f := newMemeFixture()
	userID := uuid.New()

	var storedPath string
	f.storage.On("Upload", ctx, mock.AnythingOfType("string"), "image/png", mock.Anything).
		Run(func(args mock.Arguments) { storedPath = args.String(1) }).
		Return(nil)
	f.memes.On("Create", ctx, mock.MatchedBy(func(m *model.Meme) bool {
		return m.CreatorID == userID && m.Caption == nil && strings.HasSuffix(m.ImageURL, m.StoragePath)
	})).Return(&model.Meme{ID: uuid.New(), CreatorID: userID}, nil)
	f.cache.On("Invalidate", ctx).Return(nil)

	meme, err := f.svc.CreateMeme(ctx, userID, upload("frog.bin", pngBytes), "   ")
	require.NoError(t, err)
	assert.Equal(t, userID, meme.CreatorID)
	assert.True(t, strings.HasPrefix(storedPath, userID.String()+"/"), storedPath)
	assert.True(t, strings.HasSuffix(storedPath, ".png"), storedPath)
	f.cache.AssertExpectations(t)
}

func TestMemeService_CreateMeme_Rejects(t *testing.T) {
	ctx := context.Background()

	t.Run("missing image", func(t *testing.T) {
		f := newMemeFixture()
		_, err := f.svc.CreateMeme(ctx, uuid.New(), nil, "gm")
		requireHTTPError(t, err, http.StatusBadRequest)
	})

	t.Run("not an image", func(t *testing.T) {
		f := newMemeFixture()
		_, err := f.svc.CreateMeme(ctx, uuid.New(), upload("frog.png", []byte("just some text")), "gm")
		requireHTTPError(t, err, http.StatusBadRequest)
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("too large", func(t *testing.T) {
		f := newMemeFixture()
		big := append(append([]byte{}, pngBytes...), make([]byte, 1<<20)...)
		_, err := f.svc.CreateMeme(ctx, uuid.New(), upload("frog.png", big), "gm")
		requireHTTPError(t, err, http.StatusRequestEntityTooLarge)
	})
}

func TestMemeService_CreateMeme_RemovesUploadOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	f := newMemeFixture()

	f.storage.On("Upload", ctx, mock.Anything, "image/png", mock.Anything).Return(nil)
	f.memes.On("Create", ctx, mock.Anything).Return(nil, errors.New("connection reset"))
	f.storage.On("Remove", ctx, mock.Anything).Return(nil)

	_, err := f.svc.CreateMeme(ctx, uuid.New(), upload("frog.png", pngBytes), "gm")
	require.Error(t, err)
	f.storage.AssertCalled(t, "Remove", ctx, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestMemeService_DeleteMeme(t *testing.T) {
	ctx := context.Background()
	userID, memeID := uuid.New(), uuid.New()

	t.Run("owner", func(t *testing.T) {
		f := newMemeFixture()
		path := userID.String() + "/a.png"
		f.memes.On("DeleteOwned", ctx, memeID, userID).Return(&model.Meme{ID: memeID, StoragePath: path}, nil)
		f.storage.On("Remove", ctx, []string{path}).Return(errors.New("bucket offline"))
		f.cache.On("Invalidate", ctx).Return(nil)

		// storage cleanup is best effort
		require.NoError(t, f.svc.DeleteMeme(ctx, userID, memeID))
		f.storage.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		f := newMemeFixture()
		f.memes.On("DeleteOwned", ctx, memeID, userID).Return(nil, rowNotFound("memes"))

		require.Error(t, f.svc.DeleteMeme(ctx, userID, memeID))
		f.storage.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})
}
