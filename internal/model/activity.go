// Package model はドメインモデルを定義する。
package model

import "time"

// ActivityLog は追記専用の監査レコードを表す。
// 作成後は変更されず、保持期間（デフォルト60日）を超えると自動削除される。
type ActivityLog struct {
	ID         string
	UserID     string
	UserName   string
	UserRole   Role
	Action     string
	TargetType string // 空文字列の場合は対象なし
	TargetID   string
	TargetName string
	Details    map[string]any // 構造化された補足情報。JSONBで保存される。
	CreatedAt  time.Time
}

// ActivityTarget は監査レコードの操作対象を表す。
// 対象を持たない操作（ログインなど）ではゼロ値を渡す。
type ActivityTarget struct {
	Type string
	ID   string
	Name string
}

// ActivityFilter は監査ログ一覧の検索条件を表す。
// From/Toが両方ゼロ値の場合、サービス層が保持期間ぶんのデフォルト範囲を適用する。
type ActivityFilter struct {
	ActorID string
	Action  string
	From    time.Time
	To      time.Time
}
