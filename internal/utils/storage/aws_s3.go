package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"foodgram/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

var AllowImage = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var ErrFileTypeNotAllowed = errors.New("file type not allowed")

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		utils.Log.WithError(err).Error("failed to load aws config")
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// DetectContentType sniffs data and checks it against allowed; an empty allowed list accepts anything.
func DetectContentType(data []byte, allowed ...string) (mime string, ext string, err error) {
	detected := mimetype.Detect(data)
	if len(allowed) > 0 && !slices.ContainsFunc(allowed, func(a string) bool { return detected.Is(a) }) {
		return "", "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, detected.String())
	}
	return detected.String(), detected.Extension(), nil
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error) {
	contentType, ext, err := DetectContentType(data, allowed...)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s%s", folder, fileName, ext)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return objectKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) publicPrefix() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.publicPrefix() + objectKey
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, a.publicPrefix()) {
		return ""
	}
	return strings.TrimPrefix(link, a.publicPrefix())
}
