// Package model はドメインモデルを定義する。
package model

import "time"

// TimeLogStatus は工数エントリの承認ステータスを表す。
type TimeLogStatus string

const (
	// TimeLogStatusPending は未承認（初期状態）。
	TimeLogStatusPending TimeLogStatus = "pending"
	// TimeLogStatusApproved は承認済み（終端状態）。請求対象になる。
	TimeLogStatusApproved TimeLogStatus = "approved"
	// TimeLogStatusRejected は却下（終端状態）。
	TimeLogStatusRejected TimeLogStatus = "rejected"
)

// WorkType は作業分類を表す。
type WorkType string

const (
	WorkTypeFeature WorkType = "feature"
	WorkTypeBug     WorkType = "bug"
	WorkTypeMeeting WorkType = "meeting"
	WorkTypeReview  WorkType = "review"
	WorkTypeOps     WorkType = "ops"
	WorkTypeOther   WorkType = "other"
)

// IsValid は作業分類が定義済みのいずれかであるかを返す。
func (w WorkType) IsValid() bool {
	switch w {
	case WorkTypeFeature, WorkTypeBug, WorkTypeMeeting, WorkTypeReview, WorkTypeOps, WorkTypeOther:
		return true
	}
	return false
}

// TimeLog は1ユーザーの1日分の作業報告を表す。
// UserName/UserRoleは作成時点のスナップショット（非正規化）。
// 時給はスナップショットせず、レポート生成時にUserから都度参照する。
type TimeLog struct {
	ID             string
	UserID         string
	UserName       string
	UserRole       Role
	Date           time.Time // 日付のみ（時刻成分なし、UTC）
	Hours          float64   // (0, 24] 小数可
	Summary        string
	Tickets        []string
	WorkType       WorkType
	Status         TimeLogStatus
	ApprovedBy     *string
	ManagerComment *string
	IdempotencyKey *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TimeLogFilter は工数エントリ一覧の検索条件を表す。
// ゼロ値のフィールドは条件として適用されない。
type TimeLogFilter struct {
	UserID string
	Status TimeLogStatus
	From   time.Time
	To     time.Time
}
