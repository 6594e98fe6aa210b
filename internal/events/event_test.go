package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/models"
)

func TestFanout_DeliversToEverySink(t *testing.T) {
	var a, b []Type
	f := Fanout{
		SinkFunc(func(ev Event) { a = append(a, ev.Type) }),
		nil,
		SinkFunc(func(ev Event) { b = append(b, ev.Type) }),
	}

	f.Publish(New(UploadAccepted, models.UploadedFile{ID: "f1"}))
	f.Publish(New(UploadRemoved, models.UploadedFile{ID: "f1"}))

	assert.Equal(t, []Type{UploadAccepted, UploadRemoved}, a)
	assert.Equal(t, a, b)
}

func TestNew_StampsEvent(t *testing.T) {
	ev := New(UploadProgress, models.UploadedFile{ID: "abc", Progress: 12.5})
	assert.Equal(t, "abc", ev.FileID)
	assert.Equal(t, 12.5, ev.File.Progress)
	assert.NotZero(t, ev.Timestamp)
}

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}

func TestNATSSink_Publish(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewNATSSink(pub, "studyassist.uploads", nil)

	sink.Publish(New(UploadCompleted, models.UploadedFile{ID: "f9", Status: models.FileStatusCompleted}))

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "studyassist.uploads.upload.completed", pub.subjects[0])

	var got Event
	require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
	assert.Equal(t, "f9", got.FileID)
	assert.Equal(t, models.FileStatusCompleted, got.File.Status)
}

func TestNATSSink_PublishErrorIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection closed")}
	sink := NewNATSSink(pub, "x", nil)

	assert.NotPanics(t, func() {
		sink.Publish(New(UploadFailed, models.UploadedFile{ID: "f1"}))
	})
	assert.Len(t, pub.subjects, 1)
}
