package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioMirror copies stored uploads into an S3-compatible bucket so they
// survive local disk cleanup.
type MinioMirror struct {
	client     *minio.Client
	bucketName string
	region     string
}

// NewMinioMirror connects and makes sure the bucket exists.
func NewMinioMirror(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*MinioMirror, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &MinioMirror{client: cli, bucketName: bucket, region: region}, nil
}

// Mirror uploads the local file under key and returns the object URL. The
// local copy stays in place: the upload directory remains the primary store.
func (m *MinioMirror) Mirror(ctx context.Context, localPath, key string) (string, error) {
	contentType := "application/octet-stream"
	if strings.EqualFold(filepath.Ext(localPath), ".pdf") {
		contentType = "application/pdf"
	}

	_, err := m.client.FPutObject(ctx, m.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", m.client.EndpointURL().Host, m.bucketName, key)
	return url, nil
}
