package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/utils"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// FileUpload is a file part of a multipart request.
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// memeImageTypes are the image types accepted for memes.
var memeImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// readFile reads at most maxBytes of f and sniffs its content type.
func readFile(f *FileUpload, maxBytes int64) ([]byte, *mimetype.MIME, error) {
	if f.Size > maxBytes {
		return nil, nil, errs.NewPayloadTooLargeError(fmt.Sprintf("File exceeds the %d MB limit.", maxBytes>>20))
	}

	data, err := io.ReadAll(io.LimitReader(f.Content, maxBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload %q: %w", f.Filename, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, nil, errs.NewPayloadTooLargeError(fmt.Sprintf("File exceeds the %d MB limit.", maxBytes>>20))
	}
	if len(data) == 0 {
		return nil, nil, errs.NewBadRequestError("File is empty.", true, nil, nil, nil)
	}

	return data, mimetype.Detect(data), nil
}

// pinName is the file name sent to IPFS. Names without an extension get
// the one of the sniffed content type.
func pinName(filename string, mime *mimetype.MIME) string {
	if filename == "" {
		filename = "upload"
	}
	if utils.FileExtension(filename) == "" {
		return filename + mime.Extension()
	}
	return filename
}

type UploadService struct {
	pinner   Pinner
	maxBytes int64
	logger   *zerolog.Logger
}

func NewUploadService(pinner Pinner, maxBytes int64, logger *zerolog.Logger) *UploadService {
	return &UploadService{pinner: pinner, maxBytes: maxBytes, logger: logger}
}

// UploadToIPFS pins any file to IPFS. A missing file is a 400, any
// upstream failure a 500 "Upload failed".
func (s *UploadService) UploadToIPFS(ctx context.Context, f *FileUpload) (*model.UploadResponse, error) {
	if f == nil {
		return nil, errs.NewBadRequestError("No file", true, nil, nil, nil)
	}

	data, mime, err := readFile(f, s.maxBytes)
	if err != nil {
		return nil, err
	}

	cid, err := s.pinner.Upload(ctx, pinName(f.Filename, mime), bytes.NewReader(data))
	if err != nil {
		s.logger.Error().Err(err).Str("filename", f.Filename).Msg("ipfs upload failed")
		return nil, errs.NewInternalServerErrorWithMessage("Upload failed")
	}

	metrics.RecordEvent(metrics.EventIPFSUpload)
	return &model.UploadResponse{IPFSHash: cid}, nil
}
