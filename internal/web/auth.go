package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	orgIDKey  = "orgID"
	userIDKey = "userID"
	roleKey   = "role"
)

var errIdentityNotFound = errors.New("身份信息不存在")

// Identity 从令牌中解析出来的操作人
type Identity struct {
	OrgID  int64
	UserID int64
	Role   domain.Role
}

type JwtAuth struct {
	key string
}

func NewJwtAuth(key string) *JwtAuth {
	return &JwtAuth{
		key: key,
	}
}

func (a *JwtAuth) Decode(tokenString string) (jwt.MapClaims, error) {
	// 去除可能的 Bearer 前缀（兼容不同客户端实现）
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", token.Header["alg"])
		}
		return []byte(a.key), nil
	})
	if err != nil {
		return nil, fmt.Errorf("令牌解析失败: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("无效的令牌")
}

// Encode 生成 JWT Token，自定义声明会覆盖默认声明
func (a *JwtAuth) Encode(customClaims jwt.MapClaims) (string, error) {
	claims := jwt.MapClaims{
		"iat": time.Now().Unix(),
		"iss": "alert-platform",
	}
	for k, v := range customClaims {
		claims[k] = v
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(24 * time.Hour).Unix() // 默认24小时过期
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.key))
}

// EncodeIdentity 测试和运维脚本使用
func (a *JwtAuth) EncodeIdentity(id Identity) (string, error) {
	return a.Encode(jwt.MapClaims{
		"orgId":  id.OrgID,
		"userId": id.UserID,
		"role":   string(id.Role),
	})
}

// Middleware 校验 Authorization 头，把组织和用户放进 gin.Context
func (a *JwtAuth) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, Result{Code: CodeUnauthorized, Msg: "缺少令牌"})
			return
		}
		claims, err := a.Decode(header)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, Result{Code: CodeUnauthorized, Msg: err.Error()})
			return
		}
		orgID, ok1 := claimInt64(claims, "orgId")
		userID, ok2 := claimInt64(claims, "userId")
		if !ok1 || !ok2 || orgID <= 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, Result{Code: CodeUnauthorized, Msg: "令牌缺少身份信息"})
			return
		}
		role, _ := claims["role"].(string)
		ctx.Set(orgIDKey, orgID)
		ctx.Set(userIDKey, userID)
		ctx.Set(roleKey, domain.Role(role))
		ctx.Next()
	}
}

// claimInt64 JSON 数字解析出来是 float64
func claimInt64(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func identityFrom(ctx *gin.Context) (Identity, error) {
	orgID, ok := ctx.Get(orgIDKey)
	if !ok {
		return Identity{}, errIdentityNotFound
	}
	userID, _ := ctx.Get(userIDKey)
	role, _ := ctx.Get(roleKey)
	id := Identity{}
	id.OrgID, _ = orgID.(int64)
	id.UserID, _ = userID.(int64)
	id.Role, _ = role.(domain.Role)
	return id, nil
}
