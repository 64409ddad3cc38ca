package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
)

const (
	authContextKey  = "auth"
	sessionKeyKey   = "session_key"
	SessionIDHeader = "X-Session-ID"
)

// Auth Bearerトークンがあれば検証してAuthContextを設定する。
// トークンがなければ匿名として扱い、不正なトークンは401を返す
func Auth(signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := model.Anonymous()

		if header := c.GetHeader("Authorization"); header != "" {
			tokenString := strings.TrimPrefix(header, "Bearer ")
			parsed, err := parseToken(tokenString, signingKey)
			if err != nil {
				log.Warn().Err(err).Msg("🔒 不正なトークン")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "認証に失敗しました",
					"details": err.Error(),
				})
				return
			}
			auth = parsed
		}

		c.Set(authContextKey, auth)
		c.Set(sessionKeyKey, sessionKey(c, auth))
		c.Next()
	}
}

// AuthFromContext リクエストの認証情報（未設定なら匿名）
func AuthFromContext(c *gin.Context) model.AuthContext {
	if v, ok := c.Get(authContextKey); ok {
		if auth, ok := v.(model.AuthContext); ok {
			return auth
		}
	}
	return model.Anonymous()
}

// SessionKeyFromContext セッションレジストリのキー
func SessionKeyFromContext(c *gin.Context) string {
	return c.GetString(sessionKeyKey)
}

func parseToken(tokenString string, signingKey []byte) (model.AuthContext, error) {
	if len(signingKey) == 0 {
		return model.AuthContext{}, fmt.Errorf("署名鍵が設定されていません")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return model.AuthContext{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.AuthContext{}, fmt.Errorf("invalid token")
	}

	uid := claimString(claims, "uid")
	if uid == "" {
		uid = claimString(claims, "sub")
	}
	if uid == "" {
		return model.AuthContext{}, fmt.Errorf("token has no uid or sub claim")
	}
	return model.AuthContext{UserID: uid, DisplayName: claimString(claims, "name")}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// sessionKey ログインユーザーはuid単位、X-Session-IDがあればタブ（画面）単位で分ける。
// 匿名はX-Session-ID（なければ発行してレスポンスヘッダで返す）
func sessionKey(c *gin.Context, auth model.AuthContext) string {
	id := c.GetHeader(SessionIDHeader)
	if auth.IsAuthenticated() {
		if id == "" {
			return "user:" + auth.UserID
		}
		return "user:" + auth.UserID + ":" + id
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(SessionIDHeader, id)
	return "anon:" + id
}
