package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMaxLimit caps the n accepted by TopN.
func WithMaxLimit(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithCaseInsensitiveLookup makes Rank ignore letter case.
func WithCaseInsensitiveLookup(enabled bool) Option {
	return func(s *SnapshotStore) {
		s.foldCase = enabled
	}
}
