package config

import (
	"github.com/spf13/viper"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
)

// LiveUploadPolicy reads the upload constraints from viper on every
// call, so a watched config edit takes effect on the next request. It is
// injected into the upload path; tests substitute a fixed policy.
type LiveUploadPolicy struct{}

// NewLiveUploadPolicy creates a policy backed by the loaded configuration
func NewLiveUploadPolicy() *LiveUploadPolicy {
	return &LiveUploadPolicy{}
}

// AllowedExtensions returns the current extension allow-list
func (p *LiveUploadPolicy) AllowedExtensions() []string {
	return viper.GetStringSlice("upload.allowed_extensions")
}

// MaxSizeBytes returns the current maximum upload size
func (p *LiveUploadPolicy) MaxSizeBytes() int64 {
	return viper.GetInt64("upload.max_bytes")
}

// Verify interface compliance
var _ port.UploadPolicy = (*LiveUploadPolicy)(nil)
