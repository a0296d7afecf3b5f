package progress

import "time"

// ModuleProgress is the state of one module for one user.
type ModuleProgress struct {
	ModuleID             int       `json:"moduleId"`
	AudioProgress        int       `json:"audioProgress"`
	ProgressPercentage   int       `json:"progressPercentage"`
	AudioCompleted       bool      `json:"audioCompleted"`
	PermanentlyCompleted bool      `json:"permanentlyCompleted"`
	LastAccessed         time.Time `json:"lastAccessed"`
}

// Completed reports whether the module counts as finished.
func (p ModuleProgress) Completed() bool {
	return p.ProgressPercentage >= 100
}

// empty is the record of a module nobody touched yet. A zero LastAccessed
// marks it as never accessed.
func empty(id int) ModuleProgress {
	return ModuleProgress{ModuleID: id}
}

func clamp(p int) int {
	return max(0, min(100, p))
}
