package fixture

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/hydrate/internal/errors"
)

// Source loads a set of fixtures keyed by name.
type Source interface {
	Load(ctx context.Context) (map[string]*File, error)
}

// Dir is a Source reading the fixtures of a local directory.
type Dir string

// Load implements Source.
func (d Dir) Load(context.Context) (map[string]*File, error) {
	return LoadDir(string(d))
}

// String returns the directory path.
func (d Dir) String() string { return string(d) }

// S3Client is the subset of the S3 API used by S3Source.
type S3Client interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source is a Source reading the fixtures stored under a bucket prefix.
// Objects below nested prefixes are included; names default to the object
// base name without extension.
//
// Example:
//
//	client := s3.NewFromConfig(cfg)
//	src := &fixture.S3Source{Client: client, Bucket: "ui-fixtures", Prefix: "hydrate/"}
//	files, err := src.Load(ctx)
type S3Source struct {
	Client S3Client
	Bucket string
	Prefix string

	// MaxSize bounds the size of one fixture object. Zero means 1 MiB.
	MaxSize int64
}

// ParseS3URL splits an s3://bucket/prefix URL. ok is false for anything
// that is not an s3 URL.
func ParseS3URL(raw string) (bucket, prefix string, ok bool) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, prefix, true
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) (map[string]*File, error) {
	files := make(map[string]*File)
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(s.Prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E060").WithDetailf("list s3://%s/%s", s.Bucket, s.Prefix).Wrap(err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isFixture(key) {
				continue
			}
			f, err := s.get(ctx, key)
			if err != nil {
				return nil, err
			}
			if _, dup := files[f.Name]; dup {
				return nil, errors.New("E060").WithDetailf("fixture %q defined twice in s3://%s/%s", f.Name, s.Bucket, s.Prefix)
			}
			files[f.Name] = f
		}
	}
	return files, nil
}

func (s *S3Source) get(ctx context.Context, key string) (*File, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E060").WithDetailf("get s3://%s/%s", s.Bucket, key).Wrap(err)
	}
	defer out.Body.Close()

	limit := s.MaxSize
	if limit <= 0 {
		limit = 1 << 20
	}
	data, err := io.ReadAll(io.LimitReader(out.Body, limit+1))
	if err != nil {
		return nil, errors.New("E060").WithDetailf("read s3://%s/%s", s.Bucket, key).Wrap(err)
	}
	if int64(len(data)) > limit {
		return nil, errors.New("E060").WithDetailf("s3://%s/%s exceeds %d bytes", s.Bucket, key, limit)
	}
	f, err := parseNamed(data, path.Base(key))
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Detail == "" {
			return nil, e.WithDetailf("s3://%s/%s", s.Bucket, key)
		}
		return nil, err
	}
	return f, nil
}
