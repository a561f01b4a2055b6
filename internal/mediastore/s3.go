package mediastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/clipshelf/backend/internal/config"
)

const (
	videoKeyPrefix     = "videos/"
	thumbnailKeyPrefix = "thumbnails/"
)

// S3Store implements Store against an S3-compatible object store, for
// deployments where the service does not own local disk.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewS3Store configures a client and uploader targeting the provided bucket.
func NewS3Store(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 media store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{client: client, uploader: uploader, bucket: cfg.Bucket}, nil
}

// SaveVideo uploads the raw video under the videos/ prefix.
func (s *S3Store) SaveVideo(ctx context.Context, name string, r io.Reader) error {
	return s.put(ctx, videoKeyPrefix+name, r)
}

// SaveThumbnail uploads the derived JPEG under the thumbnails/ prefix.
func (s *S3Store) SaveThumbnail(ctx context.Context, name string, data []byte) error {
	return s.put(ctx, thumbnailKeyPrefix+name, bytes.NewReader(data))
}

// OpenVideo streams the stored video object.
func (s *S3Store) OpenVideo(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.get(ctx, videoKeyPrefix+name)
}

// OpenThumbnail streams the stored thumbnail object.
func (s *S3Store) OpenThumbnail(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.get(ctx, thumbnailKeyPrefix+name)
}

// ListThumbnails pages through the thumbnails/ prefix and returns the names.
func (s *S3Store) ListThumbnails(ctx context.Context) ([]string, error) {
	var names []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(thumbnailKeyPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list thumbnails: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			names = append(names, strings.TrimPrefix(key, thumbnailKeyPrefix))
		}
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes the video and thumbnail objects. S3 deletes are already
// idempotent; a missing key is not an error.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	for _, key := range []string{videoKeyPrefix + name, thumbnailKeyPrefix + ThumbnailName(name)} {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("delete object %s: %w", key, err)
		}
	}
	return nil
}

// StageVideo downloads the object to a temp file so the frame decoder can
// read it from disk; cleanup removes the staging copy.
func (s *S3Store) StageVideo(ctx context.Context, name string) (string, func(), error) {
	body, err := s.get(ctx, videoKeyPrefix+name)
	if err != nil {
		return "", nil, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "clipshelf-stage-*")
	if err != nil {
		return "", nil, fmt.Errorf("create staging file: %w", err)
	}

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("stage video %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close staging file: %w", err)
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

func (s *S3Store) put(ctx context.Context, key string, r io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   manager.ReadSeekCloser(r),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return out.Body, nil
}
