package reconciler

import (
	"github.com/agentstation/manifestsync/internal/artifact"
	"github.com/agentstation/manifestsync/internal/transport"
	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	downloader  Downloader
	extractor   Extractor
	checksummer Checksummer
	extension   string
}

func defaultOptions() *options {
	return &options{
		downloader:  transport.New(&transport.NoAuth{}),
		extractor:   artifact.NewZipExtractor(constants.DefaultMetadataFile),
		checksummer: artifact.MD5,
		extension:   constants.DefaultArchiveExtension,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithDownloader sets how release artifacts are fetched.
func WithDownloader(downloader Downloader) Option {
	return func(o *options) error {
		if downloader == nil {
			return &errors.ValidationError{
				Field:   "downloader",
				Message: "cannot be nil",
			}
		}
		o.downloader = downloader
		return nil
	}
}

// WithExtractor sets how metadata is read from an artifact.
func WithExtractor(extractor Extractor) Option {
	return func(o *options) error {
		if extractor == nil {
			return &errors.ValidationError{
				Field:   "extractor",
				Message: "cannot be nil",
			}
		}
		o.extractor = extractor
		return nil
	}
}

// WithChecksummer sets the digest recorded for each artifact.
func WithChecksummer(checksummer Checksummer) Option {
	return func(o *options) error {
		if checksummer == nil {
			return &errors.ValidationError{
				Field:   "checksummer",
				Message: "cannot be nil",
			}
		}
		o.checksummer = checksummer
		return nil
	}
}

// WithArchiveExtension sets the suffix identifying the release asset to use.
func WithArchiveExtension(extension string) Option {
	return func(o *options) error {
		if extension == "" {
			return &errors.ValidationError{
				Field:   "archive_extension",
				Message: "cannot be empty",
			}
		}
		o.extension = extension
		return nil
	}
}
