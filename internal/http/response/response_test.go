package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{domainagg.NewError(domainagg.CodeValidation, "op", "student_id is required", nil), 400, "validation", "student_id is required"},
		{domainagg.NewError(domainagg.CodeNotFound, "op", "course not found", nil), 404, "not_found", "course not found"},
		{domainagg.NewError(domainagg.CodeNotCompleted, "op", "enrollment is not completed", nil), 409, "not_completed", "enrollment is not completed"},
		{domainagg.NewError(domainagg.CodeNoQuestions, "op", "no questions", nil), 422, "no_questions", "no questions"},
		{domainagg.NewError(domainagg.CodeStorage, "op", "storage failure", errors.New("pq: password leaked")), 500, "storage", "Internal Server Error"},
		{fmt.Errorf("wrapped: %w", domainagg.NewError(domainagg.CodeNotFound, "op", "student not found", nil)), 404, "not_found", "student not found"},
		{errors.New("plain"), 500, "internal", "Internal Server Error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondDomainError(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Fatalf("%v: want status %d got %d", tc.err, tc.wantStatus, w.Code)
		}
		var env ErrorEnvelope
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Error.Code != tc.wantCode || env.Error.Message != tc.wantMsg {
			t.Fatalf("%v: want %s/%q got %s/%q", tc.err, tc.wantCode, tc.wantMsg, env.Error.Code, env.Error.Message)
		}
	}
}

func TestStatusForCode_Conflict(t *testing.T) {
	if got := StatusForCode(domainagg.CodeConflict); got != http.StatusConflict {
		t.Fatalf("want 409 got %d", got)
	}
	if got := StatusForCode(domainagg.CodeRetryable); got != http.StatusServiceUnavailable {
		t.Fatalf("want 503 got %d", got)
	}
}

func TestRespondError_EchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-42")
	RespondError(c, http.StatusBadRequest, "validation", nil)

	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.RequestID != "req-42" || env.Error.Message != "Bad Request" {
		t.Fatalf("unexpected envelope: %+v", env.Error)
	}
}

func TestRespondCreatedOrOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		created bool
		want    int
	}{{true, http.StatusCreated}, {false, http.StatusOK}} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondCreatedOrOK(c, tc.created, gin.H{"ok": true})
		if w.Code != tc.want {
			t.Fatalf("created=%v: want %d got %d", tc.created, tc.want, w.Code)
		}
	}
}
