package utils

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrUnsupportedImageType = errors.New("unsupported image content type")

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type ImageUpload struct {
	UploadURL string `json:"uploadUrl"`
	ImageURL  string `json:"imageUrl"`
	Key       string `json:"key"`
}

// ImageUploader hands out presigned urls so court images go straight to the bucket.
type ImageUploader interface {
	PresignCourtImage(ctx context.Context, contentType string) (*ImageUpload, error)
}

type R2Uploader struct {
	R2Cli     *s3.Client
	Bucket    string
	PublicURL string
	Expires   time.Duration
}

func (u *R2Uploader) PresignCourtImage(ctx context.Context, contentType string) (*ImageUpload, error) {

	ext, ok := imageExt[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}
	key := "courts/" + uuid.New().String() + ext

	presigner := s3.NewPresignClient(u.R2Cli)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(u.Expires))
	if err != nil {
		return nil, err
	}

	return &ImageUpload{
		UploadURL: req.URL,
		ImageURL:  u.PublicURL + "/" + key,
		Key:       key,
	}, nil

}
