package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"429 テキスト", errors.New("Error 429: Too Many Requests"), KindOverloaded},
		{"quota", errors.New("RESOURCE_EXHAUSTED: Quota exceeded for metric"), KindOverloaded},
		{"503", errors.New("503 the model is overloaded"), KindOverloaded},
		{"safety", errors.New("response was blocked due to SAFETY"), KindSafetyBlocked},
		{"blocked", errors.New("request blocked"), KindSafetyBlocked},
		{"prohibited", errors.New("PROHIBITED_CONTENT"), KindSafetyBlocked},
		{"無効なAPIキー (400)", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key.", Status: "INVALID_ARGUMENT"}, KindAuthFailure},
		{"APIError 400", genai.APIError{Code: 400, Message: "Unable to process input image", Status: "INVALID_ARGUMENT"}, KindBadInput},
		{"APIError 401", genai.APIError{Code: 401, Message: "Request had invalid authentication credentials", Status: "UNAUTHENTICATED"}, KindAuthFailure},
		{"APIError 403", genai.APIError{Code: 403, Message: "The caller does not have permission", Status: "PERMISSION_DENIED"}, KindAuthFailure},
		{"APIError 404", &genai.APIError{Code: 404, Message: "models/foo is not found", Status: "NOT_FOUND"}, KindNotFound},
		{"APIError 429", genai.APIError{Code: 429, Message: "Resource has been exhausted", Status: "RESOURCE_EXHAUSTED"}, KindOverloaded},
		{"APIError 500", genai.APIError{Code: 500, Message: "Internal error encountered", Status: "INTERNAL"}, KindOverloaded},
		{"ラップされた APIError", fmt.Errorf("generate: %w", genai.APIError{Code: 403, Message: "denied", Status: "PERMISSION_DENIED"}), KindAuthFailure},
		{"net.Error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, KindNetworkFailure},
		{"DNS", &net.DNSError{Err: "no such host", Name: "generativelanguage.googleapis.com"}, KindNetworkFailure},
		{"タイムアウト", fmt.Errorf("call: %w", context.DeadlineExceeded), KindNetworkFailure},
		{"キャンセル", context.Canceled, KindUnknown},
		{"permission テキスト", errors.New("PERMISSION_DENIED"), KindAuthFailure},
		{"not found テキスト", errors.New("model not found"), KindNotFound},
		{"invalid argument テキスト", errors.New("INVALID_ARGUMENT: malformed image"), KindBadInput},
		{"fetch テキスト", errors.New("TypeError: Failed to fetch"), KindNetworkFailure},
		{"EOF", errors.New("unexpected EOF"), KindNetworkFailure},
		{"分類済み", &GenerationError{Kind: KindRefused}, KindRefused},
		{"レスポンス解析", fmt.Errorf("wrap: %w", &responseError{kind: KindEmptyResponse}), KindEmptyResponse},
		{"不明", errors.New("something odd happened"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorKind_Retryable(t *testing.T) {
	retryable := map[ErrorKind]bool{
		KindOverloaded:     true,
		KindNetworkFailure: true,
		KindEmptyResponse:  true,
	}
	for _, k := range []ErrorKind{KindUnknown, KindBadInput, KindAuthFailure, KindSafetyBlocked, KindNotFound, KindOverloaded, KindNetworkFailure, KindEmptyResponse, KindRefused} {
		t.Run(k.String(), func(t *testing.T) {
			assert.Equal(t, retryable[k], k.Retryable())
		})
	}
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("429")
	err := &GenerationError{Kind: KindOverloaded, Message: "busy", Attempts: 4, Exhausted: true, Err: cause}

	assert.Equal(t, "busy", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrRetriesExhausted)

	err.Exhausted = false
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
}
