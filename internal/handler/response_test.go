package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Init(io.Discard)

	cases := []struct {
		err    error
		status int
	}{
		{pkg.NewValidationError("text", "this field is required"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", pkg.NewValidationError("group", "select a valid choice")), http.StatusBadRequest},
		{pkg.ErrUnauthorized, http.StatusUnauthorized},
		{pkg.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("post 3: %w", pkg.ErrNotFound), http.StatusNotFound},
		{pkg.ErrConstraintViolation, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
	}
}

func TestRespondErrorValidationBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, &pkg.ValidationError{Fields: map[string]string{"text": "this field is required"}})

	var body struct {
		Msg    string            `json:"msg"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Errors["text"] != "this field is required" {
		t.Fatalf("expected field errors in body, got %s", w.Body.String())
	}
}
