package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	entity "market-catalog/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// DeleteObjects accepts at most this many keys per call.
const deleteBatchSize = 1000

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKeyID   string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

// S3Store keeps offer pictures in an S3 compatible bucket. Keys are laid out as
// <namespace>/<random id><ext>.
type S3Store struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	region        string
	publicBaseURL string
	observer      Observer
	logger        *slog.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, observer Observer, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("media bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		region:        awsCfg.Region,
		publicBaseURL: cfg.PublicBaseURL,
		observer:      resolveObserver(observer),
		logger:        logger,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, file entity.ImageFile, namespace string) (entity.Image, error) {
	start := time.Now()
	key := ObjectKey(namespace, uuid.NewString(), file.Extension)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
	})
	s.observer.RecordUpload(time.Since(start), len(file.Data), err)
	if err != nil {
		s.logger.Error("s3 upload failed",
			"event", "s3_upload_failed",
			"module", "media/s3",
			"layer", "infrastructure",
			"key", key,
			"error", err.Error(),
		)
		return entity.Image{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return entity.Image{StorageID: key, URL: s.ObjectURL(key)}, nil
}

func (s *S3Store) DeleteResources(ctx context.Context, storageIDs ...string) error {
	for start := 0; start < len(storageIDs); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(storageIDs))
		if err := s.deleteBatch(ctx, storageIDs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(strings.TrimSuffix(prefix, "/") + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list objects under %s: %w", prefix, err)
		}
		keys := make([]string, 0, len(page.Contents))
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if err := s.DeleteResources(ctx, keys...); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNamespace removes the folder marker object of namespace. Buckets
// without markers treat this as a no-op.
func (s *S3Store) DeleteNamespace(ctx context.Context, namespace string) error {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimSuffix(namespace, "/") + "/"),
	})
	s.observer.RecordDelete(time.Since(start), 1, err)
	if err != nil {
		return fmt.Errorf("delete namespace %s: %w", namespace, err)
	}
	return nil
}

// ObjectURL is the public address of key.
func (s *S3Store) ObjectURL(key string) string {
	return PublicURL(s.publicBaseURL, s.bucket, s.region, key)
}

func (s *S3Store) deleteBatch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}

	start := time.Now()
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err == nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		err = fmt.Errorf("%d objects not deleted, first %s: %s",
			len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
	}
	s.observer.RecordDelete(time.Since(start), len(keys), err)
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

func ObjectKey(namespace, name, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.TrimSuffix(namespace, "/") + "/" + name + ext
}

// PublicURL prefers baseURL and falls back to the virtual-hosted bucket address.
func PublicURL(baseURL, bucket, region, key string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/" + key
	}
	if region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
