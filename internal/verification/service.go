// Package verification はメールアドレス確認とパスワード再設定のための
// ワンタイムコードの発行・検証フローを提供する。
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/kakeibo/internal/mail"
	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/otp"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// Purpose はコード発行の用途。ワイヤ上の値は旧クライアントと互換。
type Purpose string

const (
	// PurposeSignup は新規登録時のメールアドレス確認。
	PurposeSignup Purpose = "signup"
	// PurposeRecovery はパスワード再設定のための本人確認。
	PurposeRecovery Purpose = "forgot"
)

// ParsePurpose はワイヤ上の文字列をPurposeに変換する。
func ParsePurpose(s string) (Purpose, bool) {
	switch Purpose(s) {
	case PurposeSignup, PurposeRecovery:
		return Purpose(s), true
	default:
		return "", false
	}
}

// Service はワンタイムコードの発行・検証ロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	codes     otp.Store
	sender    mail.Sender
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	codes otp.Store,
	sender mail.Sender,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepo:  userRepo,
		codes:     codes,
		sender:    sender,
		collector: collector,
		logger:    logger,
	}
}

// RequestCode は用途の前提条件を確認した上でコードを発行し、メールで送信する。
// 新規登録用途では未登録メールアドレスであること、
// 再設定用途では登録済みメールアドレスであることを要求する。
// メール送信は同期的に行い、失敗しても発行済みコードは取り消さない。
// 再リクエストで新しいコードが上書き発行される。
func (s *Service) RequestCode(ctx context.Context, email string, purpose Purpose) error {
	var username string

	switch purpose {
	case PurposeSignup:
		exists, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return model.NewEmailAlreadyRegisteredError()
		}
	case PurposeRecovery:
		user, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil {
			return model.NewUserNotFoundError()
		}
		username = user.Username
	default:
		return model.NewInvalidRequestError("purposeはsignupまたはforgotを指定してください")
	}

	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to issue code: %w", err)
	}
	s.collector.RecordOTPIssued(string(purpose))

	subject, body := composeMail(purpose, username, code)

	start := time.Now()
	err = s.sender.Send(ctx, email, subject, body)
	s.collector.RecordMailLatency(time.Since(start))
	if err != nil {
		s.collector.RecordMailDelivery(false)
		s.logger.Error("mail delivery failed",
			slog.String("purpose", string(purpose)),
			slog.String("error", err.Error()))
		return model.NewMailDeliveryFailedError("メールサーバーへの接続に失敗しました")
	}
	s.collector.RecordMailDelivery(true)

	s.logger.Info("verification code sent",
		slog.String("purpose", string(purpose)))

	return nil
}

// ConfirmCode はコードを検証する。一致時にコードは消費され、
// 同じコードを使った二度目の検証は失敗する。
func (s *Service) ConfirmCode(ctx context.Context, email, code string) error {
	result := s.codes.Validate(ctx, email, code)
	s.collector.RecordOTPValidation(result.String())

	switch result {
	case otp.Valid:
		return nil
	case otp.NotFound:
		return model.NewOTPNotFoundError()
	case otp.Expired:
		return model.NewOTPExpiredError()
	case otp.Mismatch:
		return model.NewOTPMismatchError()
	default:
		return fmt.Errorf("unexpected validation result: %v", result)
	}
}

// composeMail は用途に応じた件名と本文を組み立てる。
// 再設定用途の本文にはユーザー名を含める。
func composeMail(purpose Purpose, username, code string) (subject, body string) {
	switch purpose {
	case PurposeRecovery:
		subject = "【家計簿】パスワード再設定のご案内"
		body = fmt.Sprintf(
			"%s 様\n\nパスワード再設定のためのワンタイムコードは以下の通りです。\n\n%s\n\n有効期限は5分です。心当たりがない場合はこのメールを破棄してください。\n",
			username, code)
	default:
		subject = "【家計簿】メールアドレス確認コード"
		body = fmt.Sprintf(
			"ご登録ありがとうございます。\n\nメールアドレス確認のためのワンタイムコードは以下の通りです。\n\n%s\n\n有効期限は5分です。\n",
			code)
	}
	return subject, body
}
