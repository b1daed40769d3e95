// Package model はドメインモデルを定義する。
package model

// Scope は操作主体が参照・変更できるレコードの範囲を表す。
// 呼び出し側のフィルタリングに依存せず、サービス層が必ず適用する。
type Scope struct {
	all    bool
	userID string
}

// ScopeAll は全レコードを対象とするスコープを返す。
// マネージャーおよび経営層のリクエストで使用する。
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeSelf は指定ユーザー自身のレコードのみを対象とするスコープを返す。
func ScopeSelf(userID string) Scope {
	return Scope{userID: userID}
}

// IsAll は全レコードを対象とするスコープかを返す。
func (s Scope) IsAll() bool {
	return s.all
}

// UserID はScopeSelfの対象ユーザーIDを返す。ScopeAllの場合は空文字列。
func (s Scope) UserID() string {
	return s.userID
}

// Allows は指定ユーザーのレコードに対する操作が許可されるかを返す。
func (s Scope) Allows(userID string) bool {
	return s.all || s.userID == userID
}
