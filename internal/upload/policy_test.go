package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/models"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(" .PDF, txt ,,.png", "2MiB", true)
	require.NoError(t, err)
	assert.Equal(t, []string{".pdf", ".txt", ".png"}, p.AllowedTypes)
	assert.Equal(t, int64(2*1024*1024), p.MaxSize)
	assert.True(t, p.Enforce)
	assert.Equal(t, ".pdf,.txt,.png", p.Accept())

	p, err = ParsePolicy("", "0", false)
	require.NoError(t, err)
	assert.Empty(t, p.AllowedTypes)
	assert.Zero(t, p.MaxSize)

	_, err = ParsePolicy(DefaultAllowedTypes, "lots", true)
	assert.Error(t, err)
}

func TestPolicy_Check(t *testing.T) {
	p, err := ParsePolicy(DefaultAllowedTypes, "1KB", true)
	require.NoError(t, err)

	tests := []struct {
		name    string
		file    models.FileDescriptor
		wantErr error
	}{
		{name: "allowed", file: models.FileDescriptor{Name: "notes.PDF", Size: 10}},
		{name: "zero byte", file: models.FileDescriptor{Name: "empty.txt", Size: 0}},
		{name: "slides", file: models.FileDescriptor{Name: "deck.pptx", Size: 900}},
		{name: "wrong extension", file: models.FileDescriptor{Name: "run.exe", Size: 10}, wantErr: ErrUnsupportedType},
		{name: "no extension", file: models.FileDescriptor{Name: "README", Size: 10}, wantErr: ErrUnsupportedType},
		{name: "too large", file: models.FileDescriptor{Name: "big.pdf", Size: 5000}, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPolicy_AdvisoryNeverFails(t *testing.T) {
	p, err := ParsePolicy(".pdf", "1B", false)
	require.NoError(t, err)
	assert.NoError(t, p.Check(models.FileDescriptor{Name: "x.exe", Size: 1 << 40}))
}
