// Package upload simulates the notes uploader: accepted files are animated
// through uploading, processing and completed without any transfer.
package upload

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studyassist/backend/internal/events"
	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/store"
)

// Config holds the simulation timings.
type Config struct {
	TickInterval    time.Duration // between progress ticks
	ProcessingDelay time.Duration // from processing to completed
	MaxIncrement    float64       // upper bound of one tick's progress step
}

// DefaultConfig returns the timings the notes uploader has always used.
func DefaultConfig() Config {
	return Config{
		TickInterval:    200 * time.Millisecond,
		ProcessingDelay: 2 * time.Second,
		MaxIncrement:    15,
	}
}

// Manager owns the visible upload list and drives each record through
// uploading -> processing -> completed. No bytes are transferred.
type Manager struct {
	files      *store.Memory[models.UploadedFile]
	cfg        Config
	classifier Classifier
	policy     Policy
	sink       events.Sink
	random     func() float64
	logger     *slog.Logger

	// emit orders record writes with their events, so nothing for a
	// removed record is published after its removal.
	emit sync.Mutex

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
	ctx     context.Context
	stop    context.CancelFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithClassifier sets the category classifier.
func WithClassifier(c Classifier) Option {
	return func(m *Manager) { m.classifier = c }
}

// WithPolicy sets the file acceptance policy.
func WithPolicy(p Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithSink sets where lifecycle events are published.
func WithSink(s events.Sink) Option {
	return func(m *Manager) { m.sink = s }
}

// WithRandom replaces the [0,1) source used for progress steps.
func WithRandom(fn func() float64) Option {
	return func(m *Manager) { m.random = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a new upload simulation manager.
func NewManager(cfg Config, opts ...Option) *Manager {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.ProcessingDelay < 0 {
		cfg.ProcessingDelay = 0
	}
	if cfg.MaxIncrement <= 0 {
		cfg.MaxIncrement = def.MaxIncrement
	}

	ctx, stop := context.WithCancel(context.Background())
	m := &Manager{
		files:      store.NewMemory(func(f models.UploadedFile) string { return f.ID }),
		cfg:        cfg,
		classifier: NewRandomClassifier(nil),
		sink:       events.Discard,
		random:     rand.Float64,
		logger:     slog.Default(),
		cancels:    make(map[string]context.CancelFunc),
		ctx:        ctx,
		stop:       stop,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "upload")
	return m
}

// Accept creates one record per descriptor, appends them to the list in
// batch order and starts an independent simulation for each. It never
// rejects: files violating an enforced policy are recorded in the error
// state instead.
func (m *Manager) Accept(batch []models.FileDescriptor) []models.UploadedFile {
	now := time.Now()
	accepted := make([]models.UploadedFile, 0, len(batch))
	for _, d := range batch {
		f := models.UploadedFile{
			ID:        uuid.New().String(),
			Name:      d.Name,
			Size:      d.Size,
			Type:      d.Type,
			Status:    models.FileStatusUploading,
			Progress:  0,
			Category:  m.classifier.Classify(d),
			Tags:      Tags(d),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := m.policy.Check(d); err != nil {
			f.Status = models.FileStatusError
			f.Error = err.Error()
			f.CompletedAt = &now
		}
		accepted = append(accepted, f)
	}
	if len(accepted) == 0 {
		return accepted
	}

	m.emit.Lock()
	defer m.emit.Unlock()
	m.files.Insert(accepted...)
	for _, f := range accepted {
		m.publish(events.UploadAccepted, f)
		if f.Status == models.FileStatusError {
			m.logger.Info("file rejected by policy", "id", short(f.ID), "name", f.Name, "reason", f.Error)
			m.publish(events.UploadFailed, f)
			continue
		}
		m.start(f.ID)
	}

	m.logger.Debug("batch accepted", "files", len(accepted))
	return accepted
}

// Remove deletes exactly the record with the given id and cancels its
// pending tick and completion timer.
func (m *Manager) Remove(id string) (models.UploadedFile, bool) {
	m.emit.Lock()
	f, ok := m.files.Remove(id)
	if ok {
		m.publish(events.UploadRemoved, f)
	}
	m.emit.Unlock()
	if !ok {
		return f, false
	}
	m.release(id)
	m.logger.Debug("file removed", "id", short(id), "status", f.Status)
	return f, true
}

// Get returns a record by id.
func (m *Manager) Get(id string) (models.UploadedFile, bool) {
	return m.files.Get(id)
}

// List returns the records matching filter, in acceptance order.
func (m *Manager) List(filter Filter) []models.UploadedFile {
	return m.files.Filter(filter.Match)
}

// Categories returns the labels the classifier can assign.
func (m *Manager) Categories() []string {
	return m.classifier.Categories()
}

// Stats counts the visible records per status.
func (m *Manager) Stats() models.UploadStats {
	var st models.UploadStats
	for _, f := range m.files.List() {
		st.Total++
		st.TotalBytes += f.Size
		switch f.Status {
		case models.FileStatusUploading:
			st.Uploading++
		case models.FileStatusProcessing:
			st.Processing++
		case models.FileStatusCompleted:
			st.Completed++
		case models.FileStatusError:
			st.Failed++
		}
	}
	return st
}

// Active returns the number of simulations still running.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}

// Close cancels every in-flight simulation and waits for them to exit.
// Records stay in the list.
func (m *Manager) Close() {
	m.stop()
	m.wg.Wait()
}

func (m *Manager) start(id string) {
	if m.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(m.ctx)

	m.mu.Lock()
	m.cancels[id] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.simulate(ctx, id)
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[id]; ok {
		cancel()
		delete(m.cancels, id)
	}
}

func (m *Manager) publish(t events.Type, f models.UploadedFile) {
	m.sink.Publish(events.New(t, f))
}

// Filter selects records by name substring and category.
type Filter struct {
	Search   string
	Category string // "" or "All" matches every category
}

// Match reports whether f passes the filter.
func (flt Filter) Match(f models.UploadedFile) bool {
	if flt.Search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(flt.Search)) {
		return false
	}
	if flt.Category != "" && flt.Category != "All" && f.Category != flt.Category {
		return false
	}
	return true
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
