// Package auth はメールアドレスとパスワードによる認証とJWTの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
)

// Claims はJWTに格納する認証済みユーザーの情報。
// ロールはトークンに含めるが、権限判定の最終根拠はサービス層のユーザー参照とする。
type Claims struct {
	UserID string     `json:"user_id"`
	Name   string     `json:"name"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
}

// Service は認証のサービス層。
// ログイン検証、トークン発行、トークン検証を提供する。
type Service struct {
	userRepo repository.UserRepository
	secret   []byte
	expiry   time.Duration
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, cfg ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		secret:   []byte(cfg.JWTSecret),
		expiry:   cfg.JWTExpiration,
	}
}

// Login はメールアドレスとパスワードを検証し、JWTとユーザーを返す。
// 未知のメールアドレスとパスワード不一致は区別せず、
// どちらも同じAuthenticationErrorを返す（列挙攻撃対策）。
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", nil, model.NewAuthenticationError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, model.NewAuthenticationError()
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	return token, user, nil
}

// GenerateToken は指定ユーザーのJWTを発行する。
func (s *Service) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken はJWTを検証し、クレームを返す。
// 署名不正・期限切れの場合はエラーを返す。
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}

// HashPassword はパスワードのbcryptハッシュを生成する。
// ユーザー管理サービスの作成・パスワードリセットで使用する。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}
	return string(hashed), nil
}
