package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	sc "github.com/dmitrijs2005/postboard/internal/server/config"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Upload is a presigned PUT for a post's media object.
type Upload struct {
	Key string
	URL string
}

// MediaService hands out presigned S3 URLs for the single media object a post
// may carry. Bytes never pass through this server.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *MediaService {
	return &MediaService{db: db, repomanager: m, config: config}
}

func mediaKey(postID string) string {
	return fmt.Sprintf("posts/%s/%s", postID, uuid.New())
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// RequestUpload presigns a PUT for a fresh key and records the key on the
// caller's post. A second upload replaces the first.
func (s *MediaService) RequestUpload(ctx context.Context, caller auth.Identity, postID string) (*Upload, error) {
	if err := validID("post", postID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Posts(s.db)
	post, err := repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(caller, post.AuthorID); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := mediaKey(postID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignValidityDuration))
	if err != nil {
		return nil, fmt.Errorf("%w: presign put: %v", common.ErrorInternal, err)
	}

	if err := repo.SetMediaKey(ctx, postID, key); err != nil {
		return nil, err
	}

	return &Upload{Key: key, URL: req.URL}, nil
}

// DownloadURL presigns a GET for the post's media. A post without media is
// common.ErrorNotFound.
func (s *MediaService) DownloadURL(ctx context.Context, postID string) (string, error) {
	if err := validID("post", postID); err != nil {
		return "", err
	}

	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if post.MediaKey == "" {
		return "", fmt.Errorf("post %s has no media: %w", postID, common.ErrorNotFound)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: s3 client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := post.MediaKey

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignValidityDuration))
	if err != nil {
		return "", fmt.Errorf("%w: presign get: %v", common.ErrorInternal, err)
	}

	return req.URL, nil
}
