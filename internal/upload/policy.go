package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/studyassist/backend/internal/models"
)

// DefaultAllowedTypes is the picker's accept list.
const DefaultAllowedTypes = ".pdf,.doc,.docx,.txt,.jpg,.jpeg,.png,.gif,.ppt,.pptx"

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
)

// Policy describes which files the uploader expects. Unless Enforce is set
// it is advisory only and Check always passes.
type Policy struct {
	AllowedTypes []string // lower-case extensions with leading dot; empty allows all
	MaxSize      int64    // bytes; 0 means unlimited
	Enforce      bool
}

// ParsePolicy builds a Policy from a comma-separated extension list and a
// human size such as "50MB".
func ParsePolicy(allowed, maxSize string, enforce bool) (Policy, error) {
	p := Policy{Enforce: enforce}
	for _, ext := range strings.Split(allowed, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.AllowedTypes = append(p.AllowedTypes, ext)
	}

	maxSize = strings.TrimSpace(maxSize)
	if maxSize != "" && maxSize != "0" {
		n, err := bytes.Parse(maxSize)
		if err != nil {
			return Policy{}, fmt.Errorf("invalid max file size %q: %w", maxSize, err)
		}
		p.MaxSize = n
	}
	return p, nil
}

// Check reports why d violates an enforced policy, or nil.
func (p Policy) Check(d models.FileDescriptor) error {
	if !p.Enforce {
		return nil
	}
	if len(p.AllowedTypes) > 0 {
		ext := strings.ToLower(filepath.Ext(d.Name))
		allowed := false
		for _, a := range p.AllowedTypes {
			if ext == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
		}
	}
	if p.MaxSize > 0 && d.Size > p.MaxSize {
		return fmt.Errorf("%w: %s exceeds %s", ErrTooLarge, bytes.Format(d.Size), bytes.Format(p.MaxSize))
	}
	return nil
}

// Accept returns the picker accept attribute for the policy.
func (p Policy) Accept() string {
	return strings.Join(p.AllowedTypes, ",")
}
