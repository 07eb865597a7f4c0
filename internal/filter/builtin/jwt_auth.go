package builtin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gateway.example/filter-gateway/internal/filter"
	"gateway.example/filter-gateway/pkg/jwt"
	"gateway.example/filter-gateway/pkg/logger"
)

// JWTAuthFilter 校验请求的 Bearer 令牌，并把用户身份
// 以请求头的形式传递给上游服务。
//
// 初始化参数：
//   - secret_key: 必需，JWT签名密钥
//   - issuer: 可选，非空时要求令牌的签发者与之一致
type JWTAuthFilter struct {
	log    logger.Logger
	secret []byte
	issuer string
}

// NewJWTAuthFilter 创建未初始化的JWT认证过滤器
func NewJWTAuthFilter(log logger.Logger) *JWTAuthFilter {
	return &JWTAuthFilter{log: log}
}

// Name 返回过滤器实现名称
func (f *JWTAuthFilter) Name() string {
	return "jwt-auth"
}

// Init 从初始化参数读取签名密钥和期望的签发者
func (f *JWTAuthFilter) Init(cfg *filter.Config) error {
	secret := cfg.GetInitParameter("secret_key")
	if secret == "" {
		return fmt.Errorf("过滤器 '%s' 缺少必需的初始化参数 secret_key", cfg.GetFilterName())
	}
	f.secret = []byte(secret)
	f.issuer = cfg.GetInitParameter("issuer")
	return nil
}

// Execute 校验令牌。校验失败时直接响应401并终止过滤器链。
func (f *JWTAuthFilter) Execute(w http.ResponseWriter, r *http.Request) (bool, error) {
	ctx := r.Context()

	header := r.Header.Get("Authorization")
	if header == "" {
		f.log.Warn(ctx, "[JWT认证] 缺少Authorization头", "path", r.URL.Path)
		writeJSONError(w, http.StatusUnauthorized, "authorization header required")
		return false, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		f.log.Warn(ctx, "[JWT认证] Authorization头格式错误", "path", r.URL.Path)
		writeJSONError(w, http.StatusUnauthorized, "authorization header format must be Bearer {token}")
		return false, nil
	}

	claims, err := jwt.ValidateToken(parts[1], f.secret)
	if err != nil {
		f.log.Warn(ctx, "[JWT认证] 令牌校验失败", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
		return false, nil
	}

	if f.issuer != "" && claims.Issuer != f.issuer {
		f.log.Warn(ctx, "[JWT认证] 令牌签发者不匹配", "path", r.URL.Path, "issuer", claims.Issuer)
		writeJSONError(w, http.StatusUnauthorized, "invalid token issuer")
		return false, nil
	}

	// 把身份信息传给上游服务
	userID := strconv.FormatInt(claims.UserID, 10)
	r.Header.Set("X-User-Id", userID)
	r.Header.Set("X-Username", claims.Username)

	// 原地替换请求，使后续过滤器和日志共享带用户身份的上下文
	*r = *r.WithContext(logger.WithUserID(ctx, userID))

	return true, nil
}
