package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3StorageService talks to any S3-compatible endpoint, including the
// S3 gateway of Supabase Storage.
type S3StorageService struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	endpoint      string
	bucket        string
}

func NewS3StorageService(ctx context.Context, cfg S3StorageConfig) (*S3StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3StorageService{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		bucket:        cfg.Bucket,
	}, nil
}

func (s *S3StorageService) UploadFile(ctx context.Context, file io.Reader, filename string, folder string) (string, error) {
	key := path.Join(strings.Trim(folder, "/"), filename)

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(http.DetectContentType(content)),
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *S3StorageService) DeleteFile(ctx context.Context, fileURL string) error {
	key, err := s.keyFromURL(fileURL)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *S3StorageService) GetSignedURL(ctx context.Context, fileURL string) (string, error) {
	key, err := s.keyFromURL(fileURL)
	if err != nil {
		return "", err
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(signedURLTTL))
	if err != nil {
		return "", fmt.Errorf("get signed url: %w", err)
	}
	return req.URL, nil
}

func (s *S3StorageService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
}

func (s *S3StorageService) keyFromURL(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}

	prefix := "/" + s.bucket + "/"
	idx := strings.Index(parsed.Path, prefix)
	if idx < 0 {
		return "", fmt.Errorf("file url does not belong to configured bucket")
	}
	return parsed.Path[idx+len(prefix):], nil
}
