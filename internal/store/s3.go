package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"sms-gateway/internal/models"
)

// S3Store reads user records from an S3 bucket, one JSON object per user
// under the key <user_id>.json.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *S3Store) GetUser(ctx context.Context, userID string) (models.UserRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(userID + ".json"),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return models.UserRecord{}, ErrUserNotFound
		}
		return models.UserRecord{}, fmt.Errorf("failed to get user record %s: %w", userID, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return models.UserRecord{}, fmt.Errorf("failed to read user record %s: %w", userID, err)
	}

	var rec models.UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.UserRecord{}, fmt.Errorf("failed to parse user record %s: %w", userID, err)
	}
	return rec, nil
}
