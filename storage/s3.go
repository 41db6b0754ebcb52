package storage

import (
	"bytes"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Storage struct {
	bucket   string
	uploader *s3manager.Uploader
}

// NewS3Storage mirrors exports into an S3 bucket. Credentials come from the
// default AWS chain (env, shared config, instance role).
func NewS3Storage(bucket, region string) *S3Storage {
	sess := session.Must(session.NewSession(&aws.Config{Region: aws.String(region)}))
	return &S3Storage{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
	}
}

func (s *S3Storage) Save(name string, data []byte) error {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		ContentType: aws.String("text/csv"),
		Body:        bytes.NewReader(data),
	})
	return err
}
