package services

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	token, err := svc.GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, 期望 42", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, 期望 admin", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType = %q, 期望 %q", claims.TokenType, TokenTypeAccess)
	}
}

func TestRefreshTokenHasRefreshType(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	token, err := svc.GenerateRefreshToken(1, "user")
	if err != nil {
		t.Fatalf("签发刷新令牌失败: %v", err)
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("TokenType = %q, 期望 %q", claims.TokenType, TokenTypeRefresh)
	}
}

func TestExtractClaimsRejectsTamperedToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	token, err := svc.GenerateToken(1, "user")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	if _, err := svc.ExtractClaims(token + "x"); err == nil {
		t.Error("被篡改的令牌应该解析失败")
	}
}

func TestAuthenticateByUsernameAndEmail(t *testing.T) {
	db := newTestDB(t)
	user, _ := mustRegister(t, db, "jane", "jane@example.com")
	svc := NewJWTService(newTestConfig(), db)

	// 用户名登录
	got, err := svc.Authenticate("jane", "secret123")
	if err != nil {
		t.Fatalf("用户名认证失败: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("账号ID = %d, 期望 %d", got.ID, user.ID)
	}

	// 邮箱登录
	got, err = svc.Authenticate("jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("邮箱认证失败: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("账号ID = %d, 期望 %d", got.ID, user.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db := newTestDB(t)
	mustRegister(t, db, "jane", "jane@example.com")
	svc := NewJWTService(newTestConfig(), db)

	if _, err := svc.Authenticate("jane", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, 期望 ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, 期望 ErrInvalidCredentials", err)
	}
}
