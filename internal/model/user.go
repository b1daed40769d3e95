// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。
type Role string

const (
	// RoleDeveloper は一般の開発者。自分の工数のみ閲覧・登録できる。
	RoleDeveloper Role = "developer"
	// RoleManager はマネージャー。承認・管理操作とレポート出力ができる。
	RoleManager Role = "manager"
	// RoleLeadership は経営層。全体の閲覧とレポート参照ができる。
	RoleLeadership Role = "leadership"
)

// IsValid はロールが定義済みのいずれかであるかを返す。
func (r Role) IsValid() bool {
	switch r {
	case RoleDeveloper, RoleManager, RoleLeadership:
		return true
	}
	return false
}

// User はサービス利用ユーザーを表す。
// PasswordHashはJSONには決して含めない（ハンドラーのレスポンス型で除外する）。
type User struct {
	ID               string
	Email            string
	Name             string
	Role             Role
	PasswordHash     string
	HourlyRate       float64
	Department       string
	DailyHoursTarget float64
	IsSuperAdmin     bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanApprove は工数エントリの承認・却下が可能かを返す。
func (u *User) CanApprove() bool {
	return u.Role == RoleManager
}

// CanViewAll は全ユーザーの工数・履歴を閲覧できるかを返す。
func (u *User) CanViewAll() bool {
	return u.Role == RoleManager || u.Role == RoleLeadership
}

// Actor は監査ログに記録する操作主体のスナップショット。
// 認証ミドルウェアがJWTクレームから組み立てる。
type Actor struct {
	ID   string
	Name string
	Role Role
}
