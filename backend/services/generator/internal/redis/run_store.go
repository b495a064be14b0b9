package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"plugsim/backend/services/generator/internal/dataset"
)

// ErrRunNotFound is returned when no run record is cached.
var ErrRunNotFound = errors.New("run record not found")

// RunRecord describes a finished generator run.
type RunRecord struct {
	RunID      string                  `json:"run_id"`
	Dataset    string                  `json:"dataset"`
	Rows       int                     `json:"rows"`
	Path       string                  `json:"path"`
	FirstDay   string                  `json:"first_day"`
	Days       int                     `json:"days"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Summary    []dataset.ColumnSummary `json:"summary"`
}

// RunStore keeps run records in redis.
type RunStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunStore returns redis-backed store. A zero ttl keeps records forever.
func NewRunStore(client *redis.Client, ttl time.Duration) *RunStore {
	return &RunStore{client: client, ttl: ttl}
}

func runKey(runID string) string {
	return fmt.Sprintf("datasets:runs:%s", runID)
}

func lastKey(name string) string {
	return fmt.Sprintf("datasets:last:%s", name)
}

// Save stores rec under its run id and marks it as the latest run of its dataset.
func (s *RunStore) Save(ctx context.Context, rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, runKey(rec.RunID), data, s.ttl)
		pipe.Set(ctx, lastKey(rec.Dataset), rec.RunID, s.ttl)
		return nil
	})
	return err
}

// Get returns the record of runID.
func (s *RunStore) Get(ctx context.Context, runID string) (*RunRecord, error) {
	result, err := s.client.Get(ctx, runKey(runID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec RunRecord
	if err := json.Unmarshal([]byte(result), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Last returns the most recent run saved for the dataset name.
func (s *RunStore) Last(ctx context.Context, name string) (*RunRecord, error) {
	runID, err := s.client.Get(ctx, lastKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, runID)
}
