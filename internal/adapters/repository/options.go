package repository

import "github.com/okian/readyrank/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithStudents seeds the store with initial student records.
func WithStudents(students ...model.Student) Option {
	return func(s *MemoryStore) {
		for _, st := range students {
			s.students[st.ID] = st
		}
	}
}

// WithJobs seeds the store with initial job postings.
func WithJobs(jobs ...model.Job) Option {
	return func(s *MemoryStore) {
		for _, j := range jobs {
			s.jobs[j.ID] = j
		}
	}
}
