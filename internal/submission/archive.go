package submission

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrRecordNotFound is returned when an archived submission does not exist.
var ErrRecordNotFound = errors.New("submission record not found")

// ArchiveConfig holds object storage settings for source archival.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
}

// Archiver stores zstd-compressed submission sources in object storage.
type Archiver struct {
	client *minio.Client
	bucket string
}

// NewArchiver creates an archiver on a MinIO endpoint.
func NewArchiver(cfg ArchiveConfig) (*Archiver, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &Archiver{client: client, bucket: cfg.Bucket}, nil
}

// Store compresses and uploads one source. It returns the object key and the
// sha256 of the uncompressed source.
func (a *Archiver) Store(ctx context.Context, submissionID, language, source string) (key, hash string, err error) {
	sum := sha256.Sum256([]byte(source))
	hash = hex.EncodeToString(sum[:])
	key = "sources/" + submissionID + "." + language + ".zst"

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", "", fmt.Errorf("create zstd writer failed: %w", err)
	}
	if _, err := enc.Write([]byte(source)); err != nil {
		_ = enc.Close()
		return "", "", fmt.Errorf("compress source failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", "", fmt.Errorf("compress source failed: %w", err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/zstd",
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s failed: %w", key, err)
	}
	return key, hash, nil
}

// Fetch downloads and decompresses one archived source.
func (a *Archiver) Fetch(ctx context.Context, key string) (string, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("get object %s failed: %w", key, err)
	}
	defer obj.Close()

	dec, err := zstd.NewReader(obj)
	if err != nil {
		return "", fmt.Errorf("create zstd reader failed: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return "", fmt.Errorf("decompress %s failed: %w", key, err)
	}
	return string(data), nil
}
