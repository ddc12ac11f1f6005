package generator

import (
	"errors"
	"fmt"
)

// ErrorKind は生成失敗の分類です。リトライするかどうかは分類だけで決まります。
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindBadInput
	KindAuthFailure
	KindSafetyBlocked
	KindNotFound
	KindOverloaded
	KindNetworkFailure
	KindEmptyResponse
	KindRefused
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadInput:
		return "bad_input"
	case KindAuthFailure:
		return "auth_failure"
	case KindSafetyBlocked:
		return "safety_blocked"
	case KindNotFound:
		return "not_found"
	case KindOverloaded:
		return "overloaded"
	case KindNetworkFailure:
		return "network_failure"
	case KindEmptyResponse:
		return "empty_response"
	case KindRefused:
		return "refused"
	default:
		return "unknown"
	}
}

// Retryable は一時的な失敗（待てば成功しうるもの）であれば true を返します。
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindOverloaded, KindNetworkFailure, KindEmptyResponse:
		return true
	}
	return false
}

var (
	// ErrRetriesExhausted は一時的な失敗がリトライ上限まで続いたことを示します。
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrMissingCredential は共有キーもユーザーキーも使えないことを示します。
	ErrMissingCredential = errors.New("no API credential available")
	// ErrInvalidCredential はユーザーキーが短すぎ、かつ共有キーもないことを示します。
	ErrInvalidCredential = errors.New("user API key is too short and no shared key is configured")
)

// GenerationError は Generate が返す唯一のエラー型です。
// Error() は利用者向けのローカライズ済みメッセージを返し、元のエラーは Unwrap で取得できます。
type GenerationError struct {
	Kind      ErrorKind
	Message   string
	Attempts  int
	Exhausted bool
	Err       error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is は Exhausted のとき ErrRetriesExhausted と一致します。
func (e *GenerationError) Is(target error) bool {
	return target == ErrRetriesExhausted && e.Exhausted
}

// responseError は API 呼び出し自体は成功したが画像が得られなかった場合のエラーです。
type responseError struct {
	kind   ErrorKind
	reason string
	text   string
}

func (e *responseError) Error() string {
	switch {
	case e.text != "":
		return fmt.Sprintf("%s: model replied with text only: %s", e.kind, e.text)
	case e.reason != "":
		return fmt.Sprintf("%s: %s", e.kind, e.reason)
	}
	return fmt.Sprintf("%s: no image data in response", e.kind)
}
