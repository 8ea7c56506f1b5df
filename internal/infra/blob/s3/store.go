// Package s3 stores artifacts in an S3 compatible bucket.
package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"growcore/internal/blob/core"
)

const (
	defaultRegion = "us-east-1"
	defaultTTL    = 15 * time.Minute
	checksumMeta  = "sha256"
)

// Config describes the bucket. Static keys are optional; without them the
// default AWS credential chain applies.
type Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Store is a single-bucket core.Store.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New loads AWS configuration and builds a client for cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newStore(awsCfg, cfg), nil
}

func newStore(awsCfg aws.Config, cfg Config, extra ...func(*s3.Options)) *Store {
	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, extra...)...)
	return &Store{client: client, presign: s3.NewPresignClient(client), bucket: cfg.Bucket}
}

// Driver implements core.Store.
func (s *Store) Driver() core.Driver { return core.DriverS3 }

// Put buffers the artifact to checksum it, refusing occupied keys.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Object, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return core.Object{}, err
	}
	if _, err := s.Stat(ctx, key); err == nil {
		return core.Object{}, fmt.Errorf("%w: %s", core.ErrExists, key)
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.Object{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Object{}, fmt.Errorf("read %s: %w", key, err)
	}
	sum := sha256.Sum256(data)
	meta := core.CloneMetadata(opts.Metadata)
	if meta == nil {
		meta = make(map[string]string, 1)
	}
	meta[checksumMeta] = hex.EncodeToString(sum[:])

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      meta,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return core.Object{}, fmt.Errorf("put %s: %w", key, err)
	}
	return s.Stat(ctx, key)
}

// Open implements core.Store.
func (s *Store) Open(ctx context.Context, key string) (core.Object, io.ReadCloser, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return core.Object{}, nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return core.Object{}, nil, mapError(err, key)
	}
	return toObject(key, aws.ToInt64(out.ContentLength), out.ContentType, out.Metadata, out.LastModified), out.Body, nil
}

// Stat implements core.Store.
func (s *Store) Stat(ctx context.Context, key string) (core.Object, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return core.Object{}, err
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return core.Object{}, mapError(err, key)
	}
	return toObject(key, aws.ToInt64(out.ContentLength), out.ContentType, out.Metadata, out.LastModified), nil
}

// Delete checks existence first so the result reports whether it existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if _, err := s.Stat(ctx, key); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)}); err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	return true, nil
}

// List pages through ListObjectsV2. Listed objects carry size and time only.
func (s *Store) List(ctx context.Context, prefix string) ([]core.Object, error) {
	var out []core.Object
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket), Prefix: aws.String(prefix)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			out = append(out, core.Object{
				Key:      aws.ToString(obj.Key),
				Size:     aws.ToInt64(obj.Size),
				StoredAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// URL presigns a GET request.
func (s *Store) URL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	req, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
		s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func toObject(key string, size int64, contentType *string, meta map[string]string, modified *time.Time) core.Object {
	meta = core.CloneMetadata(meta)
	var sum string
	for k, v := range meta {
		if strings.EqualFold(k, checksumMeta) {
			sum = v
			delete(meta, k)
		}
	}
	if len(meta) == 0 {
		meta = nil
	}
	return core.Object{
		Key:         key,
		Size:        size,
		ContentType: aws.ToString(contentType),
		Checksum:    sum,
		Metadata:    meta,
		StoredAt:    aws.ToTime(modified),
	}
}

func mapError(err error, key string) error {
	var missing *types.NotFound
	var noKey *types.NoSuchKey
	if errors.As(err, &missing) || errors.As(err, &noKey) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
		return fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return fmt.Errorf("s3 %s: %w", key, err)
}
