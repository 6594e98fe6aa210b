package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/models"
)

func TestRoundRobinClassifier_Cycles(t *testing.T) {
	c := NewRoundRobinClassifier([]string{"A", "B", "C"})

	var got []string
	for i := 0; i < 5; i++ {
		got = append(got, c.Classify(models.FileDescriptor{}))
	}
	assert.Equal(t, []string{"A", "B", "C", "A", "B"}, got)
}

func TestRandomClassifier_StaysInSet(t *testing.T) {
	c := NewRandomClassifier(nil)
	for i := 0; i < 100; i++ {
		assert.Contains(t, DefaultCategories, c.Classify(models.FileDescriptor{Name: "x"}))
	}

	c.intn = func(n int) int { return n - 1 }
	assert.Equal(t, "Other", c.Classify(models.FileDescriptor{}))
}

func TestClassifier_CategoriesAreCopies(t *testing.T) {
	c := NewRandomClassifier(nil)
	cats := c.Categories()
	cats[0] = "Mutated"
	assert.Equal(t, "Mathematics", c.Categories()[0])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"random", "round-robin"}, r.Names())

	c, err := r.New("Round-Robin", []string{"X", "Y"})
	require.NoError(t, err)
	assert.Equal(t, "X", c.Classify(models.FileDescriptor{}))
	assert.Equal(t, []string{"X", "Y"}, c.Categories())

	_, err = r.New("neural", nil)
	assert.ErrorContains(t, err, "classifier not found")

	r.Register("constant", func([]string) Classifier { return NewRoundRobinClassifier([]string{"Only"}) })
	c, err = r.New("constant", nil)
	require.NoError(t, err)
	assert.Equal(t, "Only", c.Classify(models.FileDescriptor{}))
}

func TestTags(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{mime: "application/pdf", want: "pdf"},
		{mime: "image/png", want: "document"},
		{mime: "", want: "document"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, []string{"study", "notes", tt.want}, Tags(models.FileDescriptor{Type: tt.mime}))
		})
	}
}
