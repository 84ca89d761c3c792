package jobshttp

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmercer/jobs-api/internal/xerrors"
)

// Job statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var ErrNotFound = xerrors.New("job not found")

// Job is a unit of queued work.
type Job struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is an in-memory job store. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]Job
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		jobs: make(map[string]Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create(name, payload string) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := Job{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusPending,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[j.ID] = j
	return j
}

func (s *Store) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j, nil
}

// List returns all jobs ordered by creation time, oldest first.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID < out[k].ID
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out
}

func (s *Store) SetStatus(id, status string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	j.Status = status
	j.UpdatedAt = s.now()
	s.jobs[id] = j
	return j, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}
