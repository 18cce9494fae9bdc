package repository

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/inkfold/inkfold/internal/config"
	"github.com/inkfold/inkfold/internal/images"
	"github.com/inkfold/inkfold/internal/model"
)

// S3PostRepository serves posts from markdown objects in a bucket. Same
// contract as the filesystem repository: validated, sorted, memoized.
type S3PostRepository struct { // implements PostRepository
	client *s3.Client
	bucket string
	prefix string

	resolver *images.Resolver

	mu     sync.Mutex
	loaded bool
	posts  []model.Post
}

func NewS3PostRepository(accessKeyID, accessKeySecret string, s3cfg config.S3Config, resolver *images.Resolver) (*S3PostRepository, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		awsconfig.WithRegion(s3cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize s3 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
		}
	})

	return &S3PostRepository{
		client:   client,
		bucket:   s3cfg.Bucket,
		prefix:   s3cfg.Prefix,
		resolver: resolver,
	}, nil
}

func (r *S3PostRepository) ListAll(ctx context.Context) []model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.posts
	}

	r.posts = r.loadAll(ctx)
	r.loaded = true
	return r.posts
}

func (r *S3PostRepository) loadAll(ctx context.Context) []model.Post {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			repoLogger.Error().Err(err).Str("bucket", r.bucket).Msg("Error listing post objects")
			return []model.Post{}
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && strings.HasSuffix(*obj.Key, config.MarkdownExt) {
				keys = append(keys, *obj.Key)
			}
		}
	}

	// Object reads are independent; fetch concurrently and let the sort
	// impose the final order.
	results := make([]*model.Post, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()

			data, err := r.readObject(ctx, key)
			if err != nil {
				repoLogger.Error().Err(err).Str("key", key).Msg("Error reading post object")
				return
			}

			name := strings.TrimPrefix(key, r.prefix)
			slug := model.Slug(strings.TrimSuffix(name, config.MarkdownExt))
			post, err := buildListPost(slug, data, r.resolver)
			if err != nil {
				repoLogger.Warn().Err(err).Str("key", key).Msg("Skipping post")
				return
			}
			results[i] = post
		}(i, key)
	}
	wg.Wait()

	posts := make([]model.Post, 0, len(results))
	for _, post := range results {
		if post != nil {
			posts = append(posts, *post)
		}
	}
	sortPosts(posts)
	return posts
}

func (r *S3PostRepository) GetBySlug(ctx context.Context, slug model.Slug) (*model.Post, error) {
	key := r.prefix + string(slug) + config.MarkdownExt
	data, err := r.readObject(ctx, key)
	if err != nil {
		repoLogger.Warn().Err(err).Str("slug", string(slug)).Msg("Post not found")
		return nil, fmt.Errorf("read post %s: %w", slug, err)
	}

	post, err := buildRenderedPost(slug, data, r.resolver)
	if err != nil {
		repoLogger.Warn().Err(err).Str("slug", string(slug)).Msg("Error rendering post")
		return nil, fmt.Errorf("render post %s: %w", slug, err)
	}
	return post, nil
}

func (r *S3PostRepository) readObject(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (r *S3PostRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.posts = nil
	repoLogger.Info().Str("bucket", r.bucket).Msg("Post listing cache invalidated")
}
