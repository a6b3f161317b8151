package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testS3Config = S3Config{
	User:         "minioadmin",
	Password:     "minioadmin",
	Bucket:       "notekeeper",
	Region:       "us-east-1",
	BaseEndpoint: "http://127.0.0.1:9000",
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := putObject
	origPresign := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		presignGetObject = origPresign
	})
}

func TestNewS3ObjectStore_AppliesSettings(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	st, err := NewS3ObjectStore(context.Background(), testS3Config)
	require.NoError(t, err)
	assert.Equal(t, "notekeeper", st.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3ObjectStore_LoadError(t *testing.T) {
	restoreSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("cfg fail")
	}

	_, err := NewS3ObjectStore(context.Background(), testS3Config)
	require.EqualError(t, err, "cfg fail")
}

func TestS3ObjectStore_PutObject(t *testing.T) {
	restoreSeams(t)

	var captured *s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		captured = in
		return &s3.PutObjectOutput{}, nil
	}

	st := &S3ObjectStore{client: &s3.Client{}, bucket: "b"}
	require.NoError(t, st.PutObject(context.Background(), "k", []byte("{}"), "application/json"))

	require.NotNil(t, captured)
	assert.Equal(t, "b", aws.ToString(captured.Bucket))
	assert.Equal(t, "k", aws.ToString(captured.Key))
	assert.Equal(t, "application/json", aws.ToString(captured.ContentType))
	assert.Equal(t, int64(2), aws.ToInt64(captured.ContentLength))
	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("put fail")
	}
	require.EqualError(t, st.PutObject(context.Background(), "k", nil, "x"), "put fail")
}

func TestS3ObjectStore_PresignGetSeam(t *testing.T) {
	restoreSeams(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 5*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://signed/" + aws.ToString(in.Key)}, nil
	}

	st := &S3ObjectStore{presign: &s3.PresignClient{}, bucket: "b"}
	url, err := st.PresignGet(context.Background(), "k", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/k", url)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign fail")
	}
	_, err = st.PresignGet(context.Background(), "k", time.Minute)
	require.EqualError(t, err, "presign fail")
}

func TestS3ObjectStore_PresignGetRealSigner(t *testing.T) {
	restoreSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{
			Region:      "us-east-1",
			Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		}, nil
	}

	st, err := NewS3ObjectStore(context.Background(), testS3Config)
	require.NoError(t, err)

	url, err := st.PresignGet(context.Background(), "exports/1/2025/01/01/x.json", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:9000/notekeeper/exports/1/2025/01/01/x.json?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
