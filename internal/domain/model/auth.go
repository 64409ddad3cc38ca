package model

// AuthContext リクエストごとの認証情報。グローバルに参照せず明示的に渡す
type AuthContext struct {
	UserID      string
	DisplayName string
}

// Anonymous 未ログイン
func Anonymous() AuthContext {
	return AuthContext{}
}

// IsAuthenticated ユーザーが存在するか
func (a AuthContext) IsAuthenticated() bool {
	return a.UserID != ""
}
