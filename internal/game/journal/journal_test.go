package journal

import "testing"

func TestLogsKeyEncodesPage(t *testing.T) {
	if got, want := LogsKey(3).String(), "logs?page=3"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if LogsKey(1) == LogsKey(2) {
		t.Fatal("expected distinct keys per page")
	}
}

func TestTransactionsKeyEncodesFilters(t *testing.T) {
	if got, want := TransactionsKey(1, "", 0).String(), "transactions?page=1"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if got, want := TransactionsKey(2, "credits", 7).String(), "transactions?page=2&kind=credits&character=7"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if TransactionsKey(1, "credits", 0) == TransactionsKey(1, "points", 0) {
		t.Fatal("expected distinct keys per kind filter")
	}
}
