// Package storage keeps avatar images in object storage. Profile
// updates may carry the avatar inline as a data URI; the store decodes
// it, writes the bytes to the avatars bucket and hands back a stable
// URL, so the users table only ever holds an opaque reference.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ipsstrack/api/internal/config"
)

type AvatarStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewAvatarStore(cfg config.StorageConfig) (*AvatarStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &AvatarStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketAvatars)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketAvatars, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketAvatars, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketAvatars, err)
		}
	}
	return nil
}

// PutDataURI decodes a base64 data URI, stores the payload under the
// user's key and returns the object URL.
func (s *AvatarStore) PutDataURI(ctx context.Context, userID string, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("avatars/%s", userID)
	_, err = s.client.PutObject(ctx, s.cfg.BucketAvatars, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}

	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if base == "" {
		base = s.client.EndpointURL().String()
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.BucketAvatars, objectKey), nil
}

// IsDataURI reports whether the avatar reference carries inline image
// bytes rather than an external URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func decodeDataURI(uri string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data uri")
	}

	contentType = "application/octet-stream"
	if mime, _, _ := strings.Cut(meta, ";"); mime != "" {
		contentType = mime
	}

	if strings.HasSuffix(meta, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode data uri: %w", err)
		}
	} else {
		unescaped, err := url.QueryUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode data uri: %w", err)
		}
		data = []byte(unescaped)
	}

	return contentType, data, nil
}
