package generator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	overloadKeywords = []string{
		"429",
		"resource_exhausted",
		"resource exhausted",
		"quota",
		"rate limit",
		"too many requests",
		"overloaded",
		"unavailable",
		"503",
		"try again later",
	}
	safetyKeywords = []string{
		"safety",
		"blocked",
		"prohibited",
		"blocklist",
		"finishreason",
	}
	credentialKeywords = []string{
		"api key",
		"apikey",
		"api_key",
	}
	authKeywords = []string{
		"permission_denied",
		"permission denied",
		"unauthenticated",
		"unauthorized",
		"forbidden",
		"401",
		"403",
	}
	notFoundKeywords = []string{
		"not_found",
		"not found",
		"404",
		"is not supported for generatecontent",
	}
	badInputKeywords = []string{
		"invalid_argument",
		"invalid argument",
		"malformed",
		"unsupported mime",
		"bad request",
		"400",
	}
	networkKeywords = []string{
		"fetch",
		"network",
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"timeout",
		"tls handshake",
		"broken pipe",
		"eof",
	}
)

// Classify はエラーを ErrorKind に分類します。
//
// 判定順:
//  1. 分類済みのエラー (GenerationError / レスポンス解析エラー)
//  2. context のタイムアウトは一時的なネットワーク障害
//  3. 小文字化したメッセージ中の過負荷・セーフティ・APIキーのシグナル
//  4. genai.APIError のステータスコード
//  5. net.Error
//  6. 残りのキーワード (認証 → 未検出 → 不正入力 → ネットワーク)
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	var respErr *responseError
	if errors.As(err, &respErr) {
		return respErr.kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetworkFailure
	}
	if errors.Is(err, context.Canceled) {
		return KindUnknown
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, overloadKeywords):
		return KindOverloaded
	case containsAny(msg, safetyKeywords):
		return KindSafetyBlocked
	case containsAny(msg, credentialKeywords):
		// 無効なキーは 400 INVALID_ARGUMENT で返ることがあるため、ステータスより先に見る
		return KindAuthFailure
	}

	if code := statusCode(err); code != 0 {
		if kind, ok := classifyStatus(code); ok {
			return kind
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetworkFailure
	}

	switch {
	case containsAny(msg, authKeywords):
		return KindAuthFailure
	case containsAny(msg, notFoundKeywords):
		return KindNotFound
	case containsAny(msg, badInputKeywords):
		return KindBadInput
	case containsAny(msg, networkKeywords):
		return KindNetworkFailure
	}
	return KindUnknown
}

func classifyStatus(code int) (ErrorKind, bool) {
	switch {
	case code == http.StatusBadRequest:
		return KindBadInput, true
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuthFailure, true
	case code == http.StatusNotFound:
		return KindNotFound, true
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return KindOverloaded, true
	}
	return KindUnknown, false
}

// statusCode は genai.APIError からHTTPステータスを取り出します。値とポインタの両方に対応します。
func statusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
