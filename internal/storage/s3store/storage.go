package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// ObjectAPI is the subset of the S3 client used by Storage
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Storage keeps one "<prefix><username>.hash" object per credential.
// Conditional PUT (If-None-Match: *) is the create-if-absent primitive.
type Storage struct {
	client ObjectAPI
	cfg    Config
}

// New builds an S3 client from cfg
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 storage: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a storage over an existing client (for testing)
func NewWithClient(client ObjectAPI, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) key(username model.CanonicalUsername) string {
	return s.cfg.Prefix + string(username) + ".hash"
}

func (s *Storage) Exists(ctx context.Context, username model.CanonicalUsername) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(username)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 storage: %w", err)
	}
	return true, nil
}

func (s *Storage) CreateIfAbsent(ctx context.Context, cred *model.Credential) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(s.key(cred.Username)),
		Body:        strings.NewReader(cred.PasswordHash + "\n"),
		ContentType: aws.String("text/plain"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isAlreadyExists(err) {
			return model.ErrCredentialExists
		}
		return fmt.Errorf("s3 storage: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, username model.CanonicalUsername) (*model.Credential, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(username)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("s3 storage: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: %w", err)
	}

	hash := strings.TrimSpace(string(data))
	if hash == "" {
		return nil, fmt.Errorf("s3 storage: empty record for %q", username)
	}
	return &model.Credential{Username: username, PasswordHash: hash}, nil
}

func (s *Storage) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// isAlreadyExists matches a failed If-None-Match precondition. A concurrent
// conditional write to the same key reports ConditionalRequestConflict; the
// other writer wins in that case too.
func isAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
