// Package model はドメインモデルを定義する。
package model

import "time"

// TaskStatus はカンバンボード上のタスク状態を表す。
type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusInReview   TaskStatus = "In Review"
	TaskStatusBlocked    TaskStatus = "Blocked"
	TaskStatusDone       TaskStatus = "Done"
)

// IsValid はタスク状態が定義済みのいずれかであるかを返す。
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusInProgress, TaskStatusInReview, TaskStatusBlocked, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority はタスクの優先度を表す。
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

// IsValid は優先度が定義済みのいずれかであるかを返す。
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// Task はカンバンボード上の作業項目を表す。
// Assigneeは自由記述の氏名であり、Userへの外部キーではない。
type Task struct {
	ID        string
	Name      string
	Assignee  string
	Status    TaskStatus
	DueDate   *time.Time
	Priority  TaskPriority
	CreatedAt time.Time
	UpdatedAt time.Time
}
