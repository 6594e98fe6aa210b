package upload

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/studyassist/backend/internal/models"
)

// DefaultCategories are the subject labels offered by the notes uploader.
var DefaultCategories = []string{"Mathematics", "Science", "History", "Literature", "Languages", "Other"}

// Classifier assigns a subject category to an accepted file.
type Classifier interface {
	Classify(d models.FileDescriptor) string
	Categories() []string
}

// RandomClassifier picks a category uniformly at random.
type RandomClassifier struct {
	categories []string
	intn       func(n int) int
}

// NewRandomClassifier creates a uniform classifier over categories
// (DefaultCategories when empty).
func NewRandomClassifier(categories []string) *RandomClassifier {
	return &RandomClassifier{
		categories: orDefault(categories),
		intn:       rand.IntN,
	}
}

func (c *RandomClassifier) Classify(models.FileDescriptor) string {
	return c.categories[c.intn(len(c.categories))]
}

func (c *RandomClassifier) Categories() []string {
	return append([]string(nil), c.categories...)
}

// RoundRobinClassifier cycles through categories in order.
type RoundRobinClassifier struct {
	mu         sync.Mutex
	next       int
	categories []string
}

// NewRoundRobinClassifier creates a cycling classifier over categories
// (DefaultCategories when empty).
func NewRoundRobinClassifier(categories []string) *RoundRobinClassifier {
	return &RoundRobinClassifier{categories: orDefault(categories)}
}

func (c *RoundRobinClassifier) Classify(models.FileDescriptor) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat := c.categories[c.next%len(c.categories)]
	c.next++
	return cat
}

func (c *RoundRobinClassifier) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Tags returns the fixed tag set for a file: study, notes and its kind.
func Tags(d models.FileDescriptor) []string {
	kind := "document"
	if strings.Contains(d.Type, "pdf") {
		kind = "pdf"
	}
	return []string{"study", "notes", kind}
}

func orDefault(categories []string) []string {
	if len(categories) == 0 {
		return append([]string(nil), DefaultCategories...)
	}
	return append([]string(nil), categories...)
}

// ClassifierFactory builds a classifier over a category set.
type ClassifierFactory func(categories []string) Classifier

// Registry holds the classifiers selectable by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ClassifierFactory
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a registry with the built-in classifiers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]ClassifierFactory)}
	r.Register("random", func(c []string) Classifier { return NewRandomClassifier(c) })
	r.Register("round-robin", func(c []string) Classifier { return NewRoundRobinClassifier(c) })
	return r
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds or replaces a classifier under name.
func (r *Registry) Register(name string, f ClassifierFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// New builds the classifier registered under name.
func (r *Registry) New(name string, categories []string) (Classifier, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("classifier not found: %s (have %s)", name, strings.Join(r.Names(), ", "))
	}
	return f(categories), nil
}

// Names lists the registered classifier names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
