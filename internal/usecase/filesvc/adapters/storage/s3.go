package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sir_venger/ufs_lite/internal/models"
	"go.uber.org/zap"
)

// S3API: минимальный набор вызовов S3, нужный стораджу; в тестах подменяется фейком.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Config описывает сторадж поверх S3-совместимого объектного хранилища.
type S3Config struct {
	Name     string
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // MinIO / LocalStack
	BaseURL  string
}

// S3Store раскладывает файлы по ключам prefix/id.ext в одном бакете.
type S3Store struct {
	name    string
	bucket  string
	prefix  string
	baseURL string
	client  S3API
	meta    MetaLookup
	logger  *zap.Logger
}

// NewS3Store загружает AWS-конфигурацию по умолчанию и создаёт клиента.
func NewS3Store(ctx context.Context, cfg S3Config, meta MetaLookup, logger *zap.Logger) (*S3Store, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		})
	}

	return NewS3StoreWithClient(cfg, s3.NewFromConfig(awsCfg, opts...), meta, logger)
}

// NewS3StoreWithClient создаёт сторадж поверх готового клиента.
func NewS3StoreWithClient(cfg S3Config, client S3API, meta MetaLookup, logger *zap.Logger) (*S3Store, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: store name is empty", models.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("%w: store %q: bucket is empty", models.ErrInvalidConfig, cfg.Name)
	}
	if client == nil || meta == nil {
		return nil, fmt.Errorf("%w: store %q: client and metadata lookup are required", models.ErrInvalidConfig, cfg.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &S3Store{
		name:    cfg.Name,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: cfg.BaseURL,
		client:  client,
		meta:    meta,
		logger:  logger.With(zap.String("store", cfg.Name), zap.String("bucket", cfg.Bucket)),
	}, nil
}

func (s *S3Store) Name() string { return s.name }

// GetPath возвращает s3://bucket/prefix.
func (s *S3Store) GetPath() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3Store) Record(ctx context.Context, fileID string) (models.File, error) {
	return lookupRecord(ctx, s.meta, s.name, fileID)
}

// ResolvePath возвращает ключ объекта.
func (s *S3Store) ResolvePath(ctx context.Context, fileID string) (string, error) {
	file, err := lookupRecord(ctx, s.meta, s.name, fileID)
	if err != nil {
		return "", err
	}

	if s.prefix == "" {
		return fileID + "." + file.Extension, nil
	}
	return FilePath(s.prefix, fileID, file.Extension), nil
}

func (s *S3Store) GetFileURL(ctx context.Context, fileID string) (string, error) {
	file, err := lookupRecord(ctx, s.meta, s.name, fileID)
	if err != nil {
		return "", err
	}

	return FileURL(s.baseURL, s.name, fileID, file.Extension), nil
}

func (s *S3Store) Delete(ctx context.Context, fileID string) error {
	key, err := s.ResolvePath(ctx, fileID)
	if err != nil {
		return err
	}

	if _, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}

	return nil
}

func (s *S3Store) GetReadStream(ctx context.Context, fileID string) (io.ReadCloser, error) {
	key, err := s.ResolvePath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}

	return out.Body, nil
}

// GetWriteStream копит байты во временном файле и отправляет объект целиком на Close.
// В S3 дозаписи нет: повторная запись в тот же id заменяет объект.
func (s *S3Store) GetWriteStream(ctx context.Context, fileID string) (io.WriteCloser, error) {
	key, err := s.ResolvePath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "ufs-s3-*")
	if err != nil {
		return nil, err
	}

	return &s3Writer{ctx: ctx, store: s, key: key, tmp: tmp}, nil
}

// Probe проверяет доступность бакета.
func (s *S3Store) Probe(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

type s3Writer struct {
	ctx    context.Context
	store  *S3Store
	key    string
	tmp    *os.File
	closed bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		_ = w.tmp.Close()
		_ = os.Remove(w.tmp.Name())
	}()

	size, err := w.tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err = w.tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}

	_, err = w.store.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.store.bucket),
		Key:           aws.String(w.key),
		Body:          w.tmp,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", w.key, err)
	}

	w.store.logger.Info("object uploaded", zap.String("key", w.key), zap.Int64("bytes", size))
	return nil
}
