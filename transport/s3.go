package transport

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// S3Options contains the configuration for the S3 drop-bucket transport
type S3Options struct {
	Region string
	Bucket string
	Prefix string // optional key prefix inside the bucket
	Logger *zap.Logger
}

// S3Transport uploads extract files to the partner's S3 drop bucket
type S3Transport struct {
	S3Options
	uploader *s3manager.Uploader
}

// NewS3Transport returns a Transport backed by an S3 bucket
func NewS3Transport(option S3Options) (*S3Transport, error) {
	if len(option.Region) == 0 {
		return nil, fmt.Errorf("empty Region is invalid")
	}
	if len(option.Bucket) == 0 {
		return nil, fmt.Errorf("empty Bucket is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(option.Region),
	})
	if err != nil {
		return nil, extErrors.Wrap(err, "Cannot create AWS session")
	}

	return &S3Transport{
		S3Options: option,
		uploader:  s3manager.NewUploader(sess),
	}, nil
}

// Deliver uploads the staged file under remoteName, preserving the exact
// partner file name as the object key.
func (t *S3Transport) Deliver(ctx context.Context, localPath string, remoteName string) error {
	reader, err := os.Open(localPath)
	if err != nil {
		return extErrors.Wrap(err, "Cannot open staged extract file")
	}
	defer reader.Close()

	key := remoteName
	if len(t.Prefix) > 0 {
		key = path.Join(t.Prefix, remoteName)
	}

	_, err = t.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(t.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String("text/plain"),
		Body:        reader,
	})
	if err != nil {
		return extErrors.Wrap(err, "Cannot upload extract file")
	}

	t.Logger.Info("Delivered extract file",
		zap.String("RemoteName", remoteName),
		zap.String("Bucket", t.Bucket),
	)
	return nil
}
