package util

import (
	"errors"
	"sync"
	"time"

	"FitSocial/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 访问令牌载荷。令牌由账号服务签发，这里只负责校验。
type Claims struct {
	UserUUID string `json:"user_uuid"`
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

var (
	jwtMu  sync.RWMutex
	jwtCfg = config.DefaultJWTConfig()
)

// InitJWT 设置签名密钥与签发者
func InitJWT(cfg config.JWTConfig) {
	jwtMu.Lock()
	jwtCfg = cfg
	jwtMu.Unlock()
}

func currentJWT() config.JWTConfig {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtCfg
}

// GenerateToken 签发 HS256 令牌，主要供测试与本地联调使用
func GenerateToken(userUUID, deviceID string) (string, error) {
	cfg := currentJWT()
	now := time.Now()
	claims := Claims{
		UserUUID: userUUID,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// ParseToken 校验签名与有效期，返回载荷
func ParseToken(tokenString string) (*Claims, error) {
	cfg := currentJWT()
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserUUID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
