package domain

// ConflictResult - результат проверки кандидата на бронирование.
// Conflicts блокируют операцию, Warnings только информируют.
type ConflictResult struct {
	HasConflict bool     `json:"hasConflict"`
	Conflicts   []string `json:"conflicts"`
	Warnings    []string `json:"warnings"`
}

func NewConflictResult() *ConflictResult {
	return &ConflictResult{
		Conflicts: make([]string, 0),
		Warnings:  make([]string, 0),
	}
}

func (r *ConflictResult) AddConflict(message string) {
	r.Conflicts = append(r.Conflicts, message)
	r.HasConflict = true
}

func (r *ConflictResult) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}
