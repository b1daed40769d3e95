// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, timesheet, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	ErrCodeAuthorization          = "AUTHORIZATION_ERROR"
	ErrCodeAuthentication         = "AUTHENTICATION_ERROR"
	ErrCodePersistence            = "PERSISTENCE_ERROR"
)

// NewValidationError は入力値検証エラーを生成する。
// reasonには検証に失敗した理由を指定する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewTimeLogNotFoundError は工数エントリ未検出エラーを生成する。
func NewTimeLogNotFoundError(entryID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定された工数エントリが見つかりません: %s", entryID),
		Category: "timesheet",
		Action:   "エントリIDを確認してください。",
	}
}

// NewNotFoundError は汎用の未検出エラーを生成する。
// resourceには対象リソースの種別（例: "ユーザー", "フェーズ"）を指定する。
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定された%sが見つかりません: %s", resource, id),
		Category: "validation",
		Action:   "IDを確認してください。",
	}
}

// NewInvalidStateTransitionError は承認フローの不正な状態遷移エラーを生成する。
// currentには遷移に失敗した時点のステータスを指定する。
func NewInvalidStateTransitionError(current TimeLogStatus) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStateTransition,
		Message:  fmt.Sprintf("このエントリは既に処理済みです（現在のステータス: %s）", current),
		Category: "timesheet",
		Action:   "承認・却下は未承認（pending）のエントリに対してのみ実行できます。",
	}
}

// NewAuthorizationError は権限不足エラーを生成する。
func NewAuthorizationError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodeAuthorization,
		Message:  fmt.Sprintf("この操作を実行する権限がありません: %s", operation),
		Category: "auth",
		Action:   "マネージャー権限が必要です。管理者に問い合わせてください。",
	}
}

// NewAuthenticationError は認証エラーを生成する。
func NewAuthenticationError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthentication,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewPersistenceError はストレージ障害エラーを生成する。
// 内部詳細はログにのみ記録し、このエラーには含めない。
func NewPersistenceError() *APIError {
	return &APIError{
		Code:     ErrCodePersistence,
		Message:  "データの保存に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
