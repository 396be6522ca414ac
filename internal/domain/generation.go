package domain

// Generation is the state produced by one successful reload.
// It is immutable; the next reload supersedes it wholesale.
type Generation struct {
	ID          uint64
	ProviderID  string
	Provider    Provider
	Attribution string
}
