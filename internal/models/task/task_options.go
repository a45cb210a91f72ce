package task

import (
	"fmt"
	"slices"
	"strings"
)

// Patch - частичное обновление задачи; в JSON попадают только заданные поля.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Progress    *int      `json:"progress,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	AssignedTo  *[]string `json:"assigned_to,omitempty"`
}

type PatchOption func(*Patch)

func NewPatch(options ...PatchOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func WithTitle(title string) PatchOption {
	return func(p *Patch) {
		p.Title = &title
	}
}

func WithDescription(description string) PatchOption {
	return func(p *Patch) {
		p.Description = &description
	}
}

func WithProgress(progress int) PatchOption {
	return func(p *Patch) {
		p.Progress = &progress
	}
}

func WithStatus(status Status) PatchOption {
	return func(p *Patch) {
		p.Status = &status
	}
}

// WithAssignees заменяет список исполнителей; пустой список снимает всех.
func WithAssignees(usernames []string) PatchOption {
	assignees := normalizeAssignees(usernames)
	return func(p *Patch) {
		p.AssignedTo = &assignees
	}
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Progress == nil &&
		p.Status == nil && p.AssignedTo == nil
}

// FieldError описывает неверное поле патча.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("поле '%s': %s", e.Field, e.Reason)
}

func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &FieldError{Field: "title", Reason: "не может быть пустым"}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return &FieldError{Field: "description", Reason: "не может быть пустым"}
	}
	if p.Progress != nil && (*p.Progress < MinProgress || *p.Progress > MaxProgress) {
		return &FieldError{Field: "progress", Reason: "должен быть в диапазоне от 0 до 100"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &FieldError{Field: "status", Reason: fmt.Sprintf("неизвестный статус %q", *p.Status)}
	}
	return nil
}

// Apply переносит заданные поля в задачу как есть; связь статуса и прогресса задаёт SyncProgress.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AssignedTo != nil {
		t.AssignedTo = slices.Clone(*p.AssignedTo)
	}
}

func normalizeAssignees(usernames []string) []string {
	res := make([]string, 0, len(usernames))
	for _, name := range usernames {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(res, name) {
			continue
		}
		res = append(res, name)
	}
	return res
}

// NormalizeAssignees убирает пустые имена и дубликаты, сохраняя порядок.
func NormalizeAssignees(usernames []string) []string {
	return normalizeAssignees(usernames)
}
