package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"concierge/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
	}{
		{
			name:    "SessionNotFound",
			failure: failure.SessionNotFound,
			code:    http.StatusNotFound,
		},
		{
			name:    "DraftLocked",
			failure: failure.DraftLocked,
			code:    http.StatusConflict,
		},
		{
			name:    "NoActiveDraft",
			failure: failure.NoActiveDraft,
			code:    http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Message == "" {
				t.Error("expected a non-empty message")
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	err := failure.BadRequest(errors.New("validation failed"))
	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}

	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestUpstream(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		msg          string
		wantCode     int
		wantMsg      string
		wantUpstream bool
	}{
		{
			name:         "client error passes through",
			statusCode:   http.StatusConflict,
			msg:          "table already booked",
			wantCode:     http.StatusConflict,
			wantMsg:      "table already booked",
			wantUpstream: false,
		},
		{
			name:         "server error becomes bad gateway",
			statusCode:   http.StatusInternalServerError,
			msg:          "boom",
			wantCode:     http.StatusBadGateway,
			wantMsg:      "boom",
			wantUpstream: true,
		},
		{
			name:         "empty message gets a generic one",
			statusCode:   http.StatusBadGateway,
			msg:          "",
			wantCode:     http.StatusBadGateway,
			wantMsg:      "reservation service request failed",
			wantUpstream: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := failure.Upstream(tt.statusCode, tt.msg)

			if failure.GetCode(err) != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, failure.GetCode(err))
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
			}
			if failure.IsUpstream(err) != tt.wantUpstream {
				t.Errorf("expected IsUpstream to report %v", tt.wantUpstream)
			}
		})
	}

	if !failure.IsUpstream(failure.InternalError(errors.New("boom"))) {
		t.Error("expected IsUpstream to report true for internal errors")
	}
}

func TestGetCode(t *testing.T) {
	if code := failure.GetCode(errors.New("plain error")); code != http.StatusInternalServerError {
		t.Errorf("expected %d for non-failure errors, got %d", http.StatusInternalServerError, code)
	}

	if code := failure.GetCode(failure.NotFound("reservation")); code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, code)
	}
}
