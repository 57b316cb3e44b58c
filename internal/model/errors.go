// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, otp, policy, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
	ErrCodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	ErrCodeUsernameTaken          = "USERNAME_TAKEN"
	ErrCodeUserNotFound           = "USER_NOT_FOUND"
	ErrCodeMailDeliveryFailed     = "MAIL_DELIVERY_FAILED"
	ErrCodeOTPNotFound            = "OTP_NOT_FOUND"
	ErrCodeOTPExpired             = "OTP_EXPIRED"
	ErrCodeOTPMismatch            = "OTP_MISMATCH"
	ErrCodeWeakPassword           = "WEAK_PASSWORD"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	ErrCodeNotificationNotFound   = "NOTIFICATION_NOT_FOUND"
	ErrCodeInvalidAmount          = "INVALID_AMOUNT"
)

// NewInvalidRequestError は入力不備エラーを生成する。
// 台帳やストアに到達する前のフィールド検証で使用する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailAlreadyRegisteredError は登録済みメールアドレスエラーを生成する。
func NewEmailAlreadyRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyRegistered,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、パスワード再設定をお試しください。",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  "このユーザー名は既に使用されています。",
		Category: "auth",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewUserNotFoundError はユーザー未登録エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "メールアドレスを確認してください。",
	}
}

// NewMailDeliveryFailedError はメール送信失敗エラーを生成する。
// 発行済みのワンタイムコードは取り消されないため、再リクエストで上書き発行できる。
func NewMailDeliveryFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeMailDeliveryFailed,
		Message:  fmt.Sprintf("メールの送信に失敗しました: %s", reason),
		Category: "system",
		Action:   "しばらく待ってからコードを再リクエストしてください。",
	}
}

// NewOTPNotFoundError はコード未発行エラーを生成する。
func NewOTPNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPNotFound,
		Message:  "有効なワンタイムコードがありません。",
		Category: "otp",
		Action:   "コードを再リクエストしてください。",
	}
}

// NewOTPExpiredError はコード期限切れエラーを生成する。
func NewOTPExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPExpired,
		Message:  "ワンタイムコードの有効期限が切れています。",
		Category: "otp",
		Action:   "コードを再リクエストしてください。",
	}
}

// NewOTPMismatchError はコード不一致エラーを生成する。
// 有効期限内であれば正しいコードで再試行できる。
func NewOTPMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPMismatch,
		Message:  "ワンタイムコードが一致しません。",
		Category: "otp",
		Action:   "メールに記載されたコードを確認して再入力してください。",
	}
}

// NewWeakPasswordError はパスワードポリシー違反エラーを生成する。
// violationsには満たされていないルールの説明を列挙する。
func NewWeakPasswordError(violations []string) *APIError {
	msg := "パスワードが要件を満たしていません。"
	for _, v := range violations {
		msg += " " + v
	}
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  msg,
		Category: "policy",
		Action:   "8文字以上で、小文字・大文字・数字・記号をそれぞれ1文字以上含めてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度ログインしてください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewTransactionNotFoundError は明細未検出エラーを生成する。
func NewTransactionNotFoundError(transactionID string) *APIError {
	return &APIError{
		Code:     ErrCodeTransactionNotFound,
		Message:  fmt.Sprintf("指定された明細が見つかりません: %s", transactionID),
		Category: "validation",
		Action:   "明細IDを確認してください。",
	}
}

// NewNotificationNotFoundError は通知未検出エラーを生成する。
func NewNotificationNotFoundError(notificationID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotificationNotFound,
		Message:  fmt.Sprintf("指定された通知が見つかりません: %s", notificationID),
		Category: "validation",
		Action:   "通知IDを確認してください。",
	}
}

// NewInvalidAmountError は金額不正エラーを生成する。
func NewInvalidAmountError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAmount,
		Message:  "金額の形式が正しくありません。",
		Category: "validation",
		Action:   "金額は正の数値（小数2桁まで）で指定してください。",
	}
}
