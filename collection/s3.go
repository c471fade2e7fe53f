package collection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/raushankrgupta/stylis/models"
)

// ObjectAPI is the subset of *s3.Client the backend needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend keeps the collection as one JSON object in a bucket. PutObject
// replaces an object whole, so readers never see a partial list.
type S3Backend struct {
	client ObjectAPI
	bucket string
	key    string
}

func NewS3Backend(client ObjectAPI, bucket, key string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, key: key + ".json"}
}

func (b *S3Backend) Name() string { return "s3" }

func (b *S3Backend) Load(ctx context.Context) ([]models.SavedOutfit, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return []models.SavedOutfit{}, nil
		}
		return nil, fmt.Errorf("failed to get collection object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection object: %w", err)
	}
	return Decode(data)
}

func (b *S3Backend) Replace(ctx context.Context, outfits []models.SavedOutfit) error {
	data, err := Encode(outfits)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload collection object: %w", err)
	}
	return nil
}
