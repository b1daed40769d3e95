// Package model はドメインモデルを定義する。
package model

import "time"

// SharedLink はロードマップと機能ステータスの読み取り専用共有リンクを表す。
// マネージャーが発行し、トークンを知っていれば認証なしで閲覧できる。
type SharedLink struct {
	ID        string
	Token     string
	CreatedBy string
	ExpiresAt *time.Time // nilの場合は無期限
	CreatedAt time.Time
}

// IsExpired は共有リンクが期限切れかを返す。
func (l *SharedLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
