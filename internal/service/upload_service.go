package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/ids"
	"github.com/rentamaq/api/internal/media/sniffer"
	"github.com/rentamaq/api/internal/storage"
)

type UploadService struct {
	store storage.Store
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewUploadService(store storage.Store, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, cfg: cfg, log: log}
}

type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

type UploadResult struct {
	URL  string
	MIME string
	Size int64
}

// Upload validates and stores a site image. The size limit is enforced from
// the multipart header before any byte is read or written; content is
// validated by magic bytes, never by the declared Content-Type alone.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.File == nil || input.Header == nil {
		return UploadResult{}, Validationf("no se recibió ningún archivo")
	}

	maxSize := s.cfg.Uploads.MaxSizeBytes
	if input.Header.Size > maxSize {
		return UploadResult{}, Validationf("la imagen supera el tamaño máximo de %dMB", maxSize/(1024*1024))
	}

	head := make([]byte, 512)
	n, err := input.File.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return UploadResult{}, fmt.Errorf("read head: %w", err)
	}
	head = head[:n]

	result, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, Validationf("solo se permiten imágenes (jpeg, png, gif, webp)")
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(input.Header.Header))
	if declared != "" && declared != result.MIME {
		return UploadResult{}, Validationf("el tipo declarado (%s) no coincide con el contenido (%s)", declared, result.MIME)
	}

	var data []byte
	if seeker, ok := input.File.(io.ReadSeeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return UploadResult{}, fmt.Errorf("rewind: %w", err)
		}
		data, err = io.ReadAll(io.LimitReader(seeker, maxSize+1))
		if err != nil {
			return UploadResult{}, fmt.Errorf("read file: %w", err)
		}
	} else {
		rest, err := io.ReadAll(io.LimitReader(input.File, maxSize+1))
		if err != nil {
			return UploadResult{}, fmt.Errorf("read file: %w", err)
		}
		data = append(head, rest...)
	}
	if int64(len(data)) > maxSize {
		return UploadResult{}, Validationf("la imagen supera el tamaño máximo de %dMB", maxSize/(1024*1024))
	}
	if len(data) == 0 {
		return UploadResult{}, Validationf("el archivo está vacío")
	}

	name := path.Join(time.Now().UTC().Format("2006/01"), fmt.Sprintf("%s.%s", ids.New(), result.Type))
	url, err := s.store.Save(ctx, name, result.MIME, data)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}

	return UploadResult{URL: url, MIME: result.MIME, Size: int64(len(data))}, nil
}
