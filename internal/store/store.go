// Package store is an in-memory registry for jobs, resumes and their
// evaluations. It assigns the durable identities evaluation requires and
// records evaluations append-only.
package store

import (
	"sort"
	"sync"
	"time"

	"resumefit/internal/errors"
	"resumefit/internal/types"
)

// Store holds all persisted records. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	jobs        map[int64]types.JobRequirement
	resumes     map[int64]types.ResumeDocument
	evaluations []types.Evaluation

	nextJobID    int64
	nextResumeID int64
	nextEvalID   int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		jobs:         make(map[int64]types.JobRequirement),
		resumes:      make(map[int64]types.ResumeDocument),
		nextJobID:    1,
		nextResumeID: 1,
		nextEvalID:   1,
	}
}

// SaveJob assigns the job an ID and stores it. The stored copy is returned.
func (s *Store) SaveJob(job types.JobRequirement) types.JobRequirement {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.ID = s.nextJobID
	s.nextJobID++
	s.jobs[job.ID] = job
	return job
}

// SaveResume assigns the resume an ID and stores it.
func (s *Store) SaveResume(resume types.ResumeDocument) types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	resume.ID = s.nextResumeID
	s.nextResumeID++
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = time.Now().UTC()
	}
	s.resumes[resume.ID] = resume
	return resume
}

// Job returns the stored job with the given ID.
func (s *Store) Job(id int64) (types.JobRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return types.JobRequirement{}, errors.NewValidationError(errors.ErrCodeNotFound,
			"Job not found", nil).WithContext("job_id", id)
	}
	return job, nil
}

// Resume returns the stored resume with the given ID.
func (s *Store) Resume(id int64) (types.ResumeDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resume, ok := s.resumes[id]
	if !ok {
		return types.ResumeDocument{}, errors.NewValidationError(errors.ErrCodeNotFound,
			"Resume not found", nil).WithContext("resume_id", id)
	}
	return resume, nil
}

// RecordEvaluation appends the evaluation. Both referenced records must
// exist; re-evaluating a pair always creates a new record.
func (s *Store) RecordEvaluation(eval types.Evaluation) (types.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[eval.JobID]; !ok {
		return types.Evaluation{}, errors.NewValidationError(errors.ErrCodeNotFound,
			"Job not found", nil).WithContext("job_id", eval.JobID)
	}
	if _, ok := s.resumes[eval.ResumeID]; !ok {
		return types.Evaluation{}, errors.NewValidationError(errors.ErrCodeUnsavedResume,
			"Resume must be saved before evaluation", nil).WithContext("resume_id", eval.ResumeID)
	}

	eval.ID = s.nextEvalID
	s.nextEvalID++
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}
	s.evaluations = append(s.evaluations, eval)
	return eval, nil
}

// EvaluationsForJob lists evaluations for one job, best score first.
func (s *Store) EvaluationsForJob(jobID int64) []types.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Evaluation
	for _, eval := range s.evaluations {
		if eval.JobID == jobID {
			out = append(out, eval)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Stats reports record counts for the health endpoint.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int{
		"jobs":        len(s.jobs),
		"resumes":     len(s.resumes),
		"evaluations": len(s.evaluations),
	}
}
