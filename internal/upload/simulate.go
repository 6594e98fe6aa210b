package upload

import (
	"context"
	"time"

	"github.com/studyassist/backend/internal/events"
	"github.com/studyassist/backend/internal/models"
)

// simulate drives one record. Every write goes through update-by-id, so a
// record removed mid-flight ends the simulation instead of being resurrected.
func (m *Manager) simulate(ctx context.Context, id string) {
	defer m.wg.Done()
	defer m.release(id)

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	var progress float64
	for progress < 100 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		progress += m.random() * m.cfg.MaxIncrement
		if progress >= 100 {
			break
		}

		p := progress
		if !m.advance(id, events.UploadProgress, func(f *models.UploadedFile) {
			f.Progress = p
			f.UpdatedAt = time.Now()
		}) {
			return
		}
	}
	ticker.Stop()

	if !m.advance(id, events.UploadProcessing, func(f *models.UploadedFile) {
		f.Progress = 100
		f.Status = models.FileStatusProcessing
		f.UpdatedAt = time.Now()
	}) {
		return
	}

	timer := time.NewTimer(m.cfg.ProcessingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if !m.advance(id, events.UploadCompleted, func(f *models.UploadedFile) {
		now := time.Now()
		f.Status = models.FileStatusCompleted
		f.UpdatedAt = now
		f.CompletedAt = &now
	}) {
		return
	}
	m.logger.Debug("file completed", "id", short(id))
}

// advance applies fn to the record and publishes t. It reports false once
// the record is gone.
func (m *Manager) advance(id string, t events.Type, fn func(*models.UploadedFile)) bool {
	m.emit.Lock()
	defer m.emit.Unlock()
	f, ok := m.files.Update(id, fn)
	if !ok {
		return false
	}
	m.publish(t, f)
	return true
}
