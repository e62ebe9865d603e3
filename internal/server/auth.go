package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
)

// Identity 认证后的稳定玩家身份。
// 同一 token 在任何连接上都解析出同一个 ID，重连凭它找回座位
type Identity struct {
	ID     string
	Name   string
	Avatar int
}

// Authenticator 在 WebSocket 升级前验证请求
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

// TokenAuthenticator 基于 token 查询参数的访客认证。
// token 由客户端生成并本地保存，服务端只要求它非空且稳定，
// 身份 ID 是 token 的摘要，token 本身不落日志也不进协议
type TokenAuthenticator struct{}

func (TokenAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return Identity{}, fmt.Errorf("缺少 token 参数")
	}

	sum := sha256.Sum256([]byte(token))

	name := r.URL.Query().Get("name")
	if name == "" {
		name = generateNickname()
	}

	avatar := 0
	if v := r.URL.Query().Get("avatar"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			avatar = n
		}
	}

	return Identity{
		ID:     hex.EncodeToString(sum[:16]),
		Name:   name,
		Avatar: avatar,
	}, nil
}

// 访客昵称词表
var (
	nicknameAdjectives = []string{"沉稳的", "冒进的", "算牌的", "走神的", "豪横的", "苟住的"}
	nicknameNouns      = []string{"十点猎手", "主牌大师", "跟牌选手", "庄家", "搭子", "牌友"}
)

// generateNickname 随机生成一个访客昵称
func generateNickname() string {
	adj := nicknameAdjectives[rand.IntN(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.IntN(len(nicknameNouns))]
	return adj + noun
}
