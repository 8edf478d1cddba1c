package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/billix/billix-be/util"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxUploadBytes = 10 << 20

// allowedContentTypes maps accepted upload types to blob extensions
var allowedContentTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/heic":      "heic",
	"application/pdf": "pdf",
}

// BlobStore is the part of the bucket the routes rely on
type BlobStore interface {
	Exists(ctx context.Context, blobName string) (bool, error)
	Upload(ctx context.Context, ownerId string, contentType string, size int64, body io.Reader) (blobName string, err error)
	PublicURL(blobName string) string
}

type StorageBucket struct {
	*storage.BucketHandle
	name string
}

func NewStorageBucket(ctx context.Context, app *firebase.App, bucketName string) (*StorageBucket, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	bucketHandle, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	return &StorageBucket{
		BucketHandle: bucketHandle,
		name:         bucketName,
	}, nil
}

func (sb *StorageBucket) Exists(ctx context.Context, blobName string) (bool, error) {
	if len(blobName) == 0 {
		return false, nil
	}
	handle := sb.Object(blobName)
	if _, err := handle.Attrs(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Upload writes body under uploads/<ownerId>/<uuid>.<ext>
func (sb *StorageBucket) Upload(ctx context.Context, ownerId string, contentType string, size int64, body io.Reader) (string, error) {
	ext, err := ValidateUpload(contentType, size)
	if err != nil {
		return "", err
	}
	blobName := BlobName(ownerId, ext)

	// cancelling the writer's context aborts the upload
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	writer := sb.Object(blobName).NewWriter(ctx)
	writer.ContentType = contentType
	// one more byte than allowed so an understated size is still caught
	written, err := io.Copy(writer, io.LimitReader(body, MaxUploadBytes+1))
	if err != nil {
		cancel()
		_ = writer.Close()
		return "", err
	}
	if written > MaxUploadBytes {
		cancel()
		_ = writer.Close()
		return "", util.Invalidf("file must be at most %v bytes", MaxUploadBytes)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return blobName, nil
}

func (sb *StorageBucket) PublicURL(blobName string) string {
	return PublicURL(sb.name, blobName)
}

// ValidateUpload returns the blob extension for an accepted upload
func ValidateUpload(contentType string, size int64) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedContentTypes[mediaType]
	if !ok {
		return "", util.Invalidf("unsupported content type %q", contentType)
	}
	if size <= 0 || size > MaxUploadBytes {
		return "", util.Invalidf("file must be between 1 and %v bytes", MaxUploadBytes)
	}
	return ext, nil
}

// SniffContentType detects an upload's type from its leading bytes and rewinds
// body. The client's declared Content-Type is ignored.
func SniffContentType(body io.ReadSeeker) (string, error) {
	detected, err := mimetype.DetectReader(body)
	if err != nil {
		return "", err
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	for mime := detected; mime != nil; mime = mime.Parent() {
		if _, ok := allowedContentTypes[mime.String()]; ok {
			return mime.String(), nil
		}
	}
	return "", util.Invalidf("unsupported content type %q", detected.String())
}

func BlobName(ownerId string, ext string) string {
	return path.Join("uploads", ownerId, uuid.NewString()+"."+ext)
}

// IsOwnedBy reports whether blobName was uploaded by ownerId
func IsOwnedBy(blobName string, ownerId string) bool {
	return ownerId != "" && strings.HasPrefix(blobName, path.Join("uploads", ownerId)+"/")
}

func PublicURL(bucketName string, blobName string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%v/o/%v?alt=media",
		bucketName, url.PathEscape(blobName))
}
