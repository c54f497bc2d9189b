package gen

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/gaugrid/blobstore"
	miniostore "github.com/hupe1980/gaugrid/blobstore/minio"
	s3store "github.com/hupe1980/gaugrid/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// OpenStore opens the configured artifact destination.
func OpenStore(ctx context.Context, d Destination) (blobstore.Store, error) {
	switch d.Type {
	case DestLocal:
		return blobstore.NewLocalStore(d.Path), nil

	case DestS3:
		var opts []func(*awsconfig.LoadOptions) error
		if d.Region != "" {
			opts = append(opts, awsconfig.WithRegion(d.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("gen: load aws config: %w", err)
		}
		client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
			if d.Endpoint != "" {
				o.BaseEndpoint = &d.Endpoint
				o.UsePathStyle = true
			}
		})
		return s3store.NewStore(client, d.Bucket, d.Prefix), nil

	case DestMinio:
		client, err := minio.New(d.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(d.AccessKey, d.SecretKey, ""),
			Secure: d.UseSSL,
			Region: d.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("gen: minio client: %w", err)
		}
		return miniostore.NewStore(client, d.Bucket, d.Prefix), nil

	default:
		return nil, fmt.Errorf("%w: unknown destination type %q", ErrInvalidConfig, d.Type)
	}
}
