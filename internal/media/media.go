// Package media turns stored media references into URLs a browser can load.
// Bare object keys are presigned against the media bucket; absolute URLs and
// site-relative paths pass through untouched.
package media

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/model"
)

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Resolver resolves media references. A nil or unconfigured Resolver passes
// every reference through.
type Resolver struct {
	presign presigner
	bucket  string
	ttl     time.Duration
}

// Options configures the S3-compatible bucket holding tenant media.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	TTL       time.Duration
}

// NewResolver creates a resolver for the given bucket.
func NewResolver(opts Options) *Resolver {
	s3opts := s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle: true,
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Resolver{
		presign: s3.NewPresignClient(s3.New(s3opts)),
		bucket:  opts.Bucket,
		ttl:     ttl,
	}
}

// IsKey reports whether ref is a bare object key rather than a URL or path.
func IsKey(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "#") {
		return false
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return false
	}
	return true
}

// Resolve returns a loadable URL for ref. Presign failures leave the
// reference unchanged.
func (r *Resolver) Resolve(ctx context.Context, ref string) string {
	if r == nil || r.presign == nil || !IsKey(ref) {
		return ref
	}
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimSpace(ref)),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", ref).Msg("presign media reference")
		return ref
	}
	return req.URL
}

var imageKeys = map[model.SectionType][]string{
	model.SectionHero:      {"image"},
	model.SectionAboutMini: {"image"},
}

// ResolveTenant rewrites every media reference on t in place: the logo,
// section images, page galleries and team photos.
func (r *Resolver) ResolveTenant(ctx context.Context, t *model.Tenant) {
	if r == nil || t == nil {
		return
	}
	t.Branding.Logo = r.Resolve(ctx, t.Branding.Logo)
	if t.Content == nil {
		return
	}
	for i := range t.Content.Sections {
		s := &t.Content.Sections[i]
		for _, key := range imageKeys[s.Type] {
			if ref, ok := s.Content[key].(string); ok {
				s.Content[key] = r.Resolve(ctx, ref)
			}
		}
	}
	for i := range t.Content.Pages {
		p := &t.Content.Pages[i]
		for j, ref := range p.Gallery {
			p.Gallery[j] = r.Resolve(ctx, ref)
		}
		for j := range p.Team {
			p.Team[j].Photo = r.Resolve(ctx, p.Team[j].Photo)
		}
	}
}

// ResolveProperties rewrites listing images in place.
func (r *Resolver) ResolveProperties(ctx context.Context, props []model.Property) {
	if r == nil {
		return
	}
	for i := range props {
		props[i].Image = r.Resolve(ctx, props[i].Image)
	}
}
