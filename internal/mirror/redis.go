// Package mirror copies upload records into Redis hashes so other processes
// can read upload status without calling the API.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyassist/backend/internal/events"
	"github.com/studyassist/backend/internal/models"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Cmdable is the subset of redis commands the mirror uses.
type Cmdable interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// QueueSize bounds the events waiting to be written.
const QueueSize = 1024

// Redis is an events.Sink writing each upload record to a hash keyed by
// prefix+id. Publish never blocks; writes happen on the Run goroutine.
type Redis struct {
	rdb    Cmdable
	prefix string
	ttl    time.Duration
	queue  chan events.Event
	logger *slog.Logger
}

// NewRedis creates a mirror. A zero ttl keeps hashes until removal.
func NewRedis(rdb Cmdable, prefix string, ttl time.Duration, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		queue:  make(chan events.Event, QueueSize),
		logger: logger.With("component", "mirror"),
	}
}

// Publish queues ev, dropping it when the queue is full.
func (r *Redis) Publish(ev events.Event) {
	select {
	case r.queue <- ev:
	default:
		r.logger.Warn("mirror queue full, dropping event", "type", ev.Type, "id", ev.FileID)
	}
}

// Run writes queued events until ctx is done, then drains what is left.
func (r *Redis) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-r.queue:
			r.write(ctx, ev)
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

func (r *Redis) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case ev := <-r.queue:
			r.write(ctx, ev)
		default:
			return
		}
	}
}

func (r *Redis) write(ctx context.Context, ev events.Event) {
	key := r.Key(ev.FileID)
	if ev.Type == events.UploadRemoved {
		if err := r.rdb.Del(ctx, key).Err(); err != nil {
			r.logger.Warn("redis Del", "key", key, "error", err)
		}
		return
	}
	if err := r.rdb.HSet(ctx, key, Fields(ev.File)).Err(); err != nil {
		r.logger.Warn("redis HSet", "key", key, "error", err)
		return
	}
	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
			r.logger.Warn("redis Expire", "key", key, "error", err)
		}
	}
}

// Key returns the hash key of an upload.
func (r *Redis) Key(id string) string {
	return r.prefix + id
}

// record reads a mirrored upload back.
func (r *Redis) record(ctx context.Context, id string) (models.UploadedFile, bool) {
	res, err := r.rdb.HGetAll(ctx, r.Key(id)).Result()
	if err != nil || len(res) == 0 {
		return models.UploadedFile{}, false
	}
	return Decode(res), true
}

// Fields flattens an upload into hash fields.
func Fields(f models.UploadedFile) map[string]interface{} {
	completed := ""
	if f.CompletedAt != nil {
		completed = strconv.FormatInt(f.CompletedAt.UnixNano(), 10)
	}
	return map[string]interface{}{
		"id":           f.ID,
		"name":         f.Name,
		"size":         strconv.FormatInt(f.Size, 10),
		"type":         f.Type,
		"status":       string(f.Status),
		"progress":     strconv.FormatFloat(f.Progress, 'f', -1, 64),
		"category":     f.Category,
		"tags":         strings.Join(f.Tags, ","),
		"error":        f.Error,
		"created_at":   strconv.FormatInt(f.CreatedAt.UnixNano(), 10),
		"updated_at":   strconv.FormatInt(f.UpdatedAt.UnixNano(), 10),
		"completed_at": completed,
	}
}

// Decode rebuilds an upload from hash fields. Malformed numbers read as zero.
func Decode(res map[string]string) models.UploadedFile {
	f := models.UploadedFile{
		ID:       res["id"],
		Name:     res["name"],
		Type:     res["type"],
		Status:   models.FileStatus(res["status"]),
		Category: res["category"],
		Error:    res["error"],
	}
	if v := res["tags"]; v != "" {
		f.Tags = strings.Split(v, ",")
	}
	if n, err := strconv.ParseInt(res["size"], 10, 64); err == nil {
		f.Size = n
	}
	if p, err := strconv.ParseFloat(res["progress"], 64); err == nil {
		f.Progress = p
	}
	if n, err := strconv.ParseInt(res["created_at"], 10, 64); err == nil {
		f.CreatedAt = time.Unix(0, n)
	}
	if n, err := strconv.ParseInt(res["updated_at"], 10, 64); err == nil {
		f.UpdatedAt = time.Unix(0, n)
	}
	if n, err := strconv.ParseInt(res["completed_at"], 10, 64); err == nil {
		t := time.Unix(0, n)
		f.CompletedAt = &t
	}
	return f
}
