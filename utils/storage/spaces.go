package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// SpacesClient stores rendered certificate artifacts in DigitalOcean Spaces.
// The renderer itself runs client-side; the API only holds the uploaded
// result and hands out short-lived download links.
type SpacesClient struct {
	s3Client *s3.S3
	bucket   string
}

// SpacesConfig holds configuration for Spaces client
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// NewSpacesClient creates a new Spaces client
func NewSpacesClient(config SpacesConfig) (*SpacesClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesClient{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
	}, nil
}

// CertificateKey is the object key for one certificate artifact.
func CertificateKey(certificateID string) string {
	return fmt.Sprintf("certificates/%s.pdf", certificateID)
}

// UploadCertificate stores a rendered certificate document.
func (s *SpacesClient) UploadCertificate(ctx context.Context, certificateID string, data []byte) error {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(CertificateKey(certificateID)),
		Body:        aws.ReadSeekCloser(bytes.NewReader(data)),
		ACL:         aws.String("private"),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload certificate: %w", err)
	}
	return nil
}

// PresignedDownloadURL returns a short-lived GET URL for a certificate
// artifact. The link expires so certificates stay share-by-intent.
func (s *SpacesClient) PresignedDownloadURL(certificateID string, expiry time.Duration) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(CertificateKey(certificateID)),
	})

	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign certificate URL: %w", err)
	}
	return url, nil
}

// HasCertificate reports whether an artifact has been uploaded yet.
func (s *SpacesClient) HasCertificate(ctx context.Context, certificateID string) (bool, error) {
	_, err := s.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(CertificateKey(certificateID)),
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}
