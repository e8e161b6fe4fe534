package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const imageBucket = "images"

// ImageStore keeps uploaded images in a GridFS bucket. Ids are ObjectID hex
// strings.
type ImageStore struct {
	db *mongo.Database
}

func NewImageStore(db *mongo.Database) *ImageStore {
	return &ImageStore{db: db}
}

// bucket returns a fresh bucket per call because GridFS deadlines are set on
// the bucket rather than passed per operation.
func (s *ImageStore) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(imageBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := b.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
		if err := b.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *ImageStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	id, err := b.UploadFromStream(filename, r, opts)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return id.Hex(), nil
}

func (s *ImageStore) Open(ctx context.Context, id string) (io.ReadCloser, ports.ImageInfo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ImageInfo{}, domain.ErrImageNotFound
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, ports.ImageInfo{}, err
	}
	stream, err := b.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ports.ImageInfo{}, domain.ErrImageNotFound
		}
		return nil, ports.ImageInfo{}, fmt.Errorf("open image: %w", err)
	}

	file := stream.GetFile()
	return stream, ports.ImageInfo{
		ContentType: contentTypeOf(file.Metadata),
		Size:        file.Length,
	}, nil
}

func contentTypeOf(meta bson.Raw) string {
	if len(meta) > 0 {
		if ct, ok := meta.Lookup("contentType").StringValueOK(); ok && ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}
