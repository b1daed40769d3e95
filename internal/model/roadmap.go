// Package model はドメインモデルを定義する。
package model

import "time"

// PhaseStatus はロードマップフェーズの進行状態を表す。
type PhaseStatus string

const (
	PhaseStatusCompleted PhaseStatus = "completed"
	PhaseStatusCurrent   PhaseStatus = "current"
	PhaseStatusUpcoming  PhaseStatus = "upcoming"
)

// IsValid はフェーズ状態が定義済みのいずれかであるかを返す。
func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhaseStatusCompleted, PhaseStatusCurrent, PhaseStatusUpcoming:
		return true
	}
	return false
}

// PhaseHealth はフェーズの健全性を表す。
type PhaseHealth string

const (
	PhaseHealthOnTrack PhaseHealth = "on-track"
	PhaseHealthAtRisk  PhaseHealth = "at-risk"
	PhaseHealthDelayed PhaseHealth = "delayed"
)

// IsValid は健全性が定義済みのいずれかであるかを返す。
func (h PhaseHealth) IsValid() bool {
	switch h {
	case PhaseHealthOnTrack, PhaseHealthAtRisk, PhaseHealthDelayed:
		return true
	}
	return false
}

// DeliverableStatus は成果物の進捗状態を表す。
type DeliverableStatus string

const (
	DeliverableStatusDone       DeliverableStatus = "done"
	DeliverableStatusPending    DeliverableStatus = "pending"
	DeliverableStatusInProgress DeliverableStatus = "in-progress"
)

// IsValid は成果物状態が定義済みのいずれかであるかを返す。
func (s DeliverableStatus) IsValid() bool {
	switch s {
	case DeliverableStatusDone, DeliverableStatusPending, DeliverableStatusInProgress:
		return true
	}
	return false
}

// Deliverable はフェーズ内の1つの成果物を表す。
type Deliverable struct {
	Text   string            `json:"text"`
	Status DeliverableStatus `json:"status"`
}

// RoadmapPhase はデリバリーのマイルストーンを表す。
// Deliverablesの並び順は挿入順で、表示上の意味を持つ。
// PhaseLabelに一意性制約はない（同一ラベルのフェーズが複数存在しうる）。
type RoadmapPhase struct {
	ID           string
	PhaseLabel   string
	DateLabel    string // 例: "2026 Q3"
	Title        string
	Description  string
	Status       PhaseStatus
	Health       PhaseHealth
	Deliverables []Deliverable
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
