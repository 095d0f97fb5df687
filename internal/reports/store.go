package reports

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ContentStore keeps report artifacts in an S3 bucket and signs GET links
// with the bucket's presigner.
type S3ContentStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

func NewS3ContentStore(client *s3.Client, bucket string) *S3ContentStore {
	return &S3ContentStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

func (s *S3ContentStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		CacheControl: aws.String("max-age=0"),
		ContentType:  aws.String(contentType),
	})
	return err
}

func (s *S3ContentStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	if req.URL == "" {
		return "", fmt.Errorf("presign %s: empty url", key)
	}
	return req.URL, nil
}

// MemoryContentStore is the in-process stand-in used by the local backend
// and tests. Links carry an expiry timestamp but are not cryptographically
// signed.
type MemoryContentStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{objects: make(map[string][]byte)}
}

func (s *MemoryContentStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_ = ctx
	_ = contentType

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), body...)
	return nil
}

func (s *MemoryContentStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("presign %s: no such object", key)
	}
	expires := time.Now().Add(expiry).Unix()
	return fmt.Sprintf("https://reports.local/%s?Expires=%d", url.PathEscape(key), expires), nil
}

// Object returns a stored artifact, for tests and local inspection.
func (s *MemoryContentStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.objects[key]
	return body, ok
}
