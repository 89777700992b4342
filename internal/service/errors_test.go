package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"docrag/internal/apperrors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err:  &ValidationError{Field: "top_k", Message: "cannot be negative"},
			want: "validation error on field top_k: cannot be negative",
		},
		{
			name: "no field",
			err:  &ValidationError{Message: "invalid"},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	storeErr := apperrors.Storage("load chunks", errors.New("disk I/O error"))

	tests := []struct {
		name    string
		err     error
		msg     string
		wantMsg string
	}{
		{name: "nil stays nil", err: nil, msg: "stats"},
		{name: "plain error", err: errors.New("boom"), msg: "stats", wantMsg: "stats: boom"},
		{name: "kind survives", err: storeErr, msg: "query", wantMsg: "query: " + storeErr.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.err == nil {
				if got != nil {
					t.Errorf("WrapError(nil) = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() does not wrap %v", tt.err)
			}
			if apperrors.KindOf(got) != apperrors.KindOf(tt.err) {
				t.Errorf("KindOf(WrapError()) = %v, want %v", apperrors.KindOf(got), apperrors.KindOf(tt.err))
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	sentinels := map[string]error{
		"ErrInvalidInput":    ErrInvalidInput,
		"ErrNotFound":        ErrNotFound,
		"ErrExternalService": ErrExternalService,
		"ErrBusy":            ErrBusy,
	}

	for name, err := range sentinels {
		t.Run(name, func(t *testing.T) {
			if err == nil || err.Error() == "" {
				t.Fatalf("%s has no message", name)
			}
			wrapped := fmt.Errorf("ingest: %w", err)
			for otherName, other := range sentinels {
				want := otherName == name
				if got := errors.Is(wrapped, other); got != want {
					t.Errorf("errors.Is(wrapped %s, %s) = %v, want %v", name, otherName, got, want)
				}
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	var err error = &ValidationError{Field: "top_k", Message: "cannot be negative"}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBusy) {
		t.Error("ValidationError should match only ErrInvalidInput")
	}

	var ve *ValidationError
	if !errors.As(WrapError(err, "query"), &ve) || ve.Field != "top_k" {
		t.Errorf("errors.As() through WrapError = %v", ve)
	}
}

func TestClassify(t *testing.T) {
	embedErr := apperrors.Embedding("create embeddings", errors.New("503 Service Unavailable"))
	storeErr := apperrors.Storage("save chunks", errors.New("database is locked"))
	invalid := &ValidationError{Field: "paths", Message: "at least one path is required"}

	tests := []struct {
		name         string
		err          error
		wantExternal bool
		wantIs       []error
	}{
		{
			name:         "embedding failure is external",
			err:          embedErr,
			wantExternal: true,
			wantIs:       []error{ErrExternalService, apperrors.ErrEmbedding, embedErr},
		},
		{
			name:         "wrapped embedding failure is external",
			err:          fmt.Errorf("embed batch: %w", embedErr),
			wantExternal: true,
			wantIs:       []error{ErrExternalService, apperrors.ErrEmbedding},
		},
		{
			name:   "storage failure keeps its kind",
			err:    storeErr,
			wantIs: []error{apperrors.ErrStorage, storeErr},
		},
		{
			name:   "validation error stays invalid input",
			err:    invalid,
			wantIs: []error{ErrInvalidInput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, "ingest")

			if !strings.HasPrefix(got.Error(), "ingest: ") {
				t.Errorf("classify() = %q, want the message prefix", got.Error())
			}
			if errors.Is(got, ErrExternalService) != tt.wantExternal {
				t.Errorf("errors.Is(classify(), ErrExternalService) = %v, want %v", !tt.wantExternal, tt.wantExternal)
			}
			for _, target := range tt.wantIs {
				if !errors.Is(got, target) {
					t.Errorf("classify() = %v, want it to match %v", got, target)
				}
			}
			if errors.Is(got, ErrBusy) || errors.Is(got, ErrNotFound) {
				t.Errorf("classify() = %v matches an unrelated sentinel", got)
			}
		})
	}
}
