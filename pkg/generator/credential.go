package generator

import (
	"strings"

	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
)

// Credential は 1 回の生成で使う認証キーとそのモードです。
type Credential struct {
	Mode domain.CredentialMode
	Key  string
}

// ResolveCredential は利用するキーを決めます。
// ユーザーキーが MinUserKeyLength 文字を超えていればそれを優先し、なければ共有キーを使います。
// 長さ以外の形式チェックはしないため、無効なキーは API 側の認証エラーで判明します。
func ResolveCredential(sharedKey, userKey string) (Credential, error) {
	if k := strings.TrimSpace(userKey); len(k) > MinUserKeyLength {
		return Credential{Mode: domain.CredentialUser, Key: k}, nil
	}
	if k := strings.TrimSpace(sharedKey); k != "" && k != "undefined" {
		return Credential{Mode: domain.CredentialShared, Key: k}, nil
	}
	if strings.TrimSpace(userKey) != "" {
		return Credential{}, ErrInvalidCredential
	}
	return Credential{}, ErrMissingCredential
}

// Redacted はログ出力用に末尾 4 文字だけを残したキーを返します。
func (c Credential) Redacted() string {
	if len(c.Key) <= 4 {
		return "****"
	}
	return "****" + c.Key[len(c.Key)-4:]
}
