// Package model はドメインモデルを定義する。
package model

import "time"

// FeatureHealth は機能の稼働状態を表す。
type FeatureHealth string

const (
	FeatureHealthOperational FeatureHealth = "operational"
	FeatureHealthDegraded    FeatureHealth = "degraded"
	FeatureHealthCritical    FeatureHealth = "critical"
)

// IsValid は稼働状態が定義済みのいずれかであるかを返す。
func (s FeatureHealth) IsValid() bool {
	switch s {
	case FeatureHealthOperational, FeatureHealthDegraded, FeatureHealthCritical:
		return true
	}
	return false
}

// FeatureStatus はプロダクト機能の稼働状況を表す。
// PublicNoteは全ロールに表示される。LinkedTicketは任意のチケット参照。
type FeatureStatus struct {
	ID           string
	Name         string
	Status       FeatureHealth
	PublicNote   string
	LinkedTicket *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
