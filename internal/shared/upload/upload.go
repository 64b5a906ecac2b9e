// Package upload turns multipart image files into stored objects for
// avatars and post or comment attachments.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/shandysiswandi/gosocial/internal/pkg/storage"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
)

// DefaultMaxSize applies when a Keeper is built with a non-positive limit.
const DefaultMaxSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("upload: only jpeg, png, webp and gif images are accepted")
	ErrTooLarge        = errors.New("upload: file too large")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// File is an opened upload with a sniffed content type.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	closer      io.Closer
}

// Close releases the underlying multipart file.
func (f File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// NewFile wraps an in-memory body, sniffing its content type.
func NewFile(name string, body []byte) File {
	return File{
		Name:        name,
		ContentType: http.DetectContentType(body),
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}

// Open opens fh and sniffs the first 512 bytes.
func Open(fh *multipart.FileHeader) (File, error) {
	f, err := fh.Open()
	if err != nil {
		return File{}, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		//nolint:errcheck // already failing
		f.Close()
		return File{}, err
	}

	return File{
		Name:        fh.Filename,
		ContentType: http.DetectContentType(head[:n]),
		Size:        fh.Size,
		Body:        io.MultiReader(bytes.NewReader(head[:n]), f),
		closer:      f,
	}, nil
}

// OpenAll opens every header; on error the files opened so far are closed.
func OpenAll(fhs []*multipart.FileHeader) ([]File, error) {
	files := make([]File, 0, len(fhs))
	for _, fh := range fhs {
		f, err := Open(fh)
		if err != nil {
			CloseAll(files)
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func CloseAll(files []File) {
	for _, f := range files {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close upload", "name", f.Name, "error", err)
		}
	}
}

// Attachment is a stored object as kept on a row.
type Attachment struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Keeper validates and stores uploads under generated keys.
type Keeper struct {
	storage storage.Storage
	uuid    uid.StringID
	maxSize int64
}

func NewKeeper(stg storage.Storage, uuid uid.StringID, maxSize int64) *Keeper {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Keeper{storage: stg, uuid: uuid, maxSize: maxSize}
}

// Check reports the first file that is not an accepted image or is too large.
func (k *Keeper) Check(files []File) error {
	for _, f := range files {
		if _, ok := imageExt[f.ContentType]; !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, f.Name)
		}
		if f.Size > k.maxSize {
			return fmt.Errorf("%w: %s", ErrTooLarge, f.Name)
		}
	}
	return nil
}

// Store checks then puts every file under dir. When one put fails the
// objects already written are removed.
func (k *Keeper) Store(ctx context.Context, dir string, files []File) ([]Attachment, error) {
	if err := k.Check(files); err != nil {
		return nil, err
	}

	out := make([]Attachment, 0, len(files))
	for _, f := range files {
		key := path.Join(dir, k.uuid.Generate()+imageExt[f.ContentType])
		obj, err := k.storage.Put(ctx, key, io.LimitReader(f.Body, k.maxSize), f.Size, f.ContentType)
		if err != nil {
			k.Remove(ctx, out)
			return nil, err
		}
		out = append(out, Attachment{Key: obj.Key, URL: obj.URL})
	}
	return out, nil
}

// Remove deletes objects, logging failures.
func (k *Keeper) Remove(ctx context.Context, atts []Attachment) {
	for _, a := range atts {
		if a.Key == "" {
			continue
		}
		if err := k.storage.Delete(ctx, a.Key); err != nil {
			slog.WarnContext(ctx, "failed to delete stored object", "key", a.Key, "error", err)
		}
	}
}
