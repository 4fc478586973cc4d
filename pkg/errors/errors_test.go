package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeLLMProviderError, http.StatusBadGateway},
		{CodeLLMTimeout, http.StatusGatewayTimeout},
		{CodeVectorDBError, http.StatusInternalServerError},
		{CodeEmbeddingFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := New(tc.code, "x").HTTPStatus; got != tc.want {
			t.Errorf("code %s: status = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestAsAppErrorFollowsWrapChain(t *testing.T) {
	base := Wrap(context.DeadlineExceeded, CodeLLMTimeout, "llm timeout")
	wrapped := fmt.Errorf("answer: %w", base)

	got := AsAppError(wrapped)
	if got.Code != CodeLLMTimeout {
		t.Fatalf("code = %s, want %s", got.Code, CodeLLMTimeout)
	}
	if !HasCode(wrapped, CodeLLMTimeout) {
		t.Fatal("HasCode should see wrapped AppError")
	}
	if !IsAppError(wrapped) {
		t.Fatal("IsAppError should see wrapped AppError")
	}
}

func TestAsAppErrorUnknown(t *testing.T) {
	got := AsAppError(fmt.Errorf("boom"))
	if got.Code != CodeUnknown {
		t.Fatalf("code = %s, want %s", got.Code, CodeUnknown)
	}
	if got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("status = %d", got.HTTPStatus)
	}
}
