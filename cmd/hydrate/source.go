package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/pkg/fixture"
)

// fixtureSource returns the source for a fixture location: a local
// directory or an s3://bucket/prefix URL.
func fixtureSource(cfg *config.Config, location string) fixture.Source {
	bucket, prefix, ok := fixture.ParseS3URL(location)
	if !ok {
		return fixture.Dir(location)
	}
	return &fixture.S3Source{
		Client: newS3Client(cfg.S3),
		Bucket: bucket,
		Prefix: prefix,
	}
}

// newS3Client builds a client from the config and the standard AWS
// environment variables. Without an access key requests are anonymous.
func newS3Client(c config.S3Config) *s3.Client {
	region := c.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if os.Getenv("AWS_ACCESS_KEY_ID") != "" {
		creds = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}, nil
		}))
	}

	opts := s3.Options{
		Region:       region,
		Credentials:  creds,
		UsePathStyle: c.PathStyle,
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
	}
	return s3.New(opts)
}

func describeSource(src fixture.Source) string {
	switch s := src.(type) {
	case fixture.Dir:
		return string(s)
	case *fixture.S3Source:
		return "s3://" + s.Bucket + "/" + s.Prefix
	}
	return "source"
}
