package chain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSequenceNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/GABC" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"sequence": "123456789"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	seq, err := client.SequenceNumber(context.Background(), "GABC")
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if seq != 123456789 {
		t.Fatalf("unexpected sequence %d", seq)
	}
}

func TestSubmitTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transactions" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("tx") != "base64-envelope" {
			t.Fatalf("unexpected form %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SubmitResult{Hash: "deadbeef", Ledger: 42})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.SubmitTransaction(context.Background(), "base64-envelope")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Hash != "deadbeef" || result.Ledger != 42 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSubmitTransactionBadSequence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"title": "Transaction Failed",
			"extras": map[string]any{
				"result_codes": map[string]any{"transaction": "tx_bad_seq"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SubmitTransaction(context.Background(), "stale")
	if !errors.Is(err, ErrBadSequence) {
		t.Fatalf("expected ErrBadSequence, got %v", err)
	}
}

func TestSubmitTransactionOperationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"title": "Transaction Failed",
			"extras": map[string]any{
				"result_codes": map[string]any{
					"transaction": "tx_failed",
					"operations":  []string{"op_underfunded"},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SubmitTransaction(context.Background(), "broke")
	if err == nil || errors.Is(err, ErrBadSequence) {
		t.Fatalf("expected generic submit failure, got %v", err)
	}
	if got := err.Error(); got != "horizon submit: Transaction Failed (tx_failed, op_underfunded)" {
		t.Fatalf("unexpected message %q", got)
	}
}
