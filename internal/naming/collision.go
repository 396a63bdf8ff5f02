package naming

import "sync"

// CollisionResolver tracks destination paths claimed by source files during
// one run. The first source to claim a path owns it for the rest of the run.
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // destination path → source path that owns it
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{owners: make(map[string]string)}
}

// Claim records src as the owner of dst. It returns ok == true when dst was
// free or already owned by src; otherwise ok is false and owner names the
// source that holds it.
func (cr *CollisionResolver) Claim(src, dst string) (owner string, ok bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[dst]
	if !exists {
		cr.owners[dst] = src
		return src, true
	}
	return owner, owner == src
}

// Len returns the number of claimed destinations.
func (cr *CollisionResolver) Len() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.owners)
}
