package evidence

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"github.com/myrjola/dockwatch/internal/errors"
)

// MaxFileSize is the per-file ceiling enforced before encoding.
const MaxFileSize = 10 << 20 // 10 MiB

var (
	ErrTooLarge        = errors.NewSentinel("evidence file exceeds the 10 MiB limit")
	ErrUnsupportedType = errors.NewSentinel("file type does not match the evidence category")
	ErrUnknownCategory = errors.NewSentinel("unknown evidence category")
)

// Ingestor validates and encodes user-selected files into evidence items.
type Ingestor struct {
	logger *slog.Logger
}

func NewIngestor(logger *slog.Logger) *Ingestor {
	return &Ingestor{logger: logger.With("source", "Ingestor")}
}

// Ingest reads the file, enforces the size ceiling, detects the media type and
// encodes the content. It returns the encoded item without touching any store;
// the caller attaches it to the investigation session on success, so a failed
// ingestion leaves the evidence set unchanged.
//
// size is the declared file size, or a negative value when unknown. The
// ceiling is enforced on the actual bytes read either way.
func (i *Ingestor) Ingest(
	ctx context.Context,
	category Category,
	filename string,
	declaredType string,
	size int64,
	r io.Reader,
) (Item, error) {
	var item Item
	if !category.Valid() {
		return item, errors.Wrap(ErrUnknownCategory, "validate category",
			slog.String("category", string(category)))
	}
	if size > MaxFileSize {
		return item, errors.Wrap(ErrTooLarge, "check declared size",
			slog.String("filename", filename), slog.Int64("size", size))
	}

	// Read one byte past the ceiling so that oversized streams with an
	// unknown declared size are caught as well.
	content, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return item, errors.Wrap(err, "read evidence file", slog.String("filename", filename))
	}
	if len(content) > MaxFileSize {
		return item, errors.Wrap(ErrTooLarge, "check read size", slog.String("filename", filename))
	}

	mediaType := declaredType
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(content)
	}
	if !category.Accepts(mediaType) {
		return item, errors.Wrap(ErrUnsupportedType, "match media type",
			slog.String("filename", filename),
			slog.String("mediaType", mediaType),
			slog.String("category", string(category)))
	}

	i.logger.LogAttrs(ctx, slog.LevelDebug, "encoded evidence",
		slog.String("filename", filename),
		slog.String("category", string(category)),
		slog.String("mediaType", mediaType),
		slog.Int("bytes", len(content)))

	item = Item{
		Category:  category,
		Filename:  filename,
		MediaType: mediaType,
		Payload:   base64.StdEncoding.EncodeToString(content),
	}
	return item, nil
}
