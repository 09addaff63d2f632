package recordfile

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func TestCreateWithHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		file    string
		setup   func(dir string)
		wantErr error
	}{
		{
			name:    "creates file with header",
			headers: []string{"id", "conversationName", "createdTime"},
			file:    "db_conversations",
		},
		{
			name:    "fails when file exists",
			headers: []string{"id"},
			file:    "dup",
			setup: func(dir string) {
				if err := CreateWithHeader([]string{"id"}, dir, "dup"); err != nil {
					t.Fatalf("setup CreateWithHeader() error = %v", err)
				}
			},
			wantErr: ErrAlreadyExists,
		},
		{
			name:    "fails on empty headers",
			headers: nil,
			file:    "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(dir)
			}

			err := CreateWithHeader(tt.headers, dir, tt.file)
			if len(tt.headers) == 0 {
				if err == nil {
					t.Fatal("CreateWithHeader() expected error for empty headers")
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateWithHeader() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateWithHeader() error = %v", err)
			}

			rows, err := ReadAll(dir, tt.file)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(rows) != 1 || !reflect.DeepEqual(rows[0], tt.headers) {
				t.Errorf("ReadAll() = %v, want header %v", rows, tt.headers)
			}
		})
	}
}

func TestCreateWithHeaderMakesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/deeper"

	if err := CreateWithHeader([]string{"id"}, dir, "file"); err != nil {
		t.Fatalf("CreateWithHeader() error = %v", err)
	}
	if !Exists(dir, "file") {
		t.Error("Exists() = false after CreateWithHeader()")
	}
}

func TestReadAllNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadAll(dir, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadAll() error = %v, want ErrNotFound", err)
	}
}

func TestAppendRows(t *testing.T) {
	dir := t.TempDir()
	headers := []string{"id", "conversationId", "clientId", "context", "sender", "createdTime"}

	if err := CreateWithHeader(headers, dir, "c1"); err != nil {
		t.Fatalf("CreateWithHeader() error = %v", err)
	}

	rows := [][]string{
		{"m1", "c1", "client", "hello", "client", "2024-01-01T00:00:00Z"},
		{"m2", "c1", "client", "hi there", "bot", "2024-01-01T00:00:05Z"},
	}
	if err := AppendRows(rows, dir, "c1"); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	got, err := ReadAll(dir, "c1")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadAll() returned %d rows, want 3", len(got))
	}
	if !reflect.DeepEqual(got[0], headers) {
		t.Errorf("header row = %v, want %v", got[0], headers)
	}
	if !reflect.DeepEqual(got[1], rows[0]) || !reflect.DeepEqual(got[2], rows[1]) {
		t.Errorf("data rows = %v, want %v", got[1:], rows)
	}
}

func TestAppendRowsNeverCreates(t *testing.T) {
	dir := t.TempDir()

	err := AppendRows([][]string{{"m1"}}, dir, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AppendRows() error = %v, want ErrNotFound", err)
	}
	if Exists(dir, "missing") {
		t.Error("AppendRows() created the file")
	}
}

func TestAppendRowsQuotesCommas(t *testing.T) {
	dir := t.TempDir()

	if err := CreateWithHeader([]string{"id", "context"}, dir, "c1"); err != nil {
		t.Fatalf("CreateWithHeader() error = %v", err)
	}
	if err := AppendRows([][]string{{"m1", "hello, world"}}, dir, "c1"); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	rows, err := ReadAll(dir, "c1")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if rows[1][1] != "hello, world" {
		t.Errorf("field round-trip = %q, want %q", rows[1][1], "hello, world")
	}
}

func TestRewriteFiltered(t *testing.T) {
	dir := t.TempDir()
	headers := []string{"id", "conversationName", "createdTime"}

	if err := CreateWithHeader(headers, dir, "db_conversations"); err != nil {
		t.Fatalf("CreateWithHeader() error = %v", err)
	}
	rows := [][]string{
		{"c1", "New conversation", "2024-01-01T00:00:00Z"},
		{"c2", "New conversation", "2024-01-02T00:00:00Z"},
		{"c3", "New conversation", "2024-01-03T00:00:00Z"},
	}
	if err := AppendRows(rows, dir, "db_conversations"); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	// Drop c2, rename c3
	err := RewriteFiltered(dir, "db_conversations", func(row []string) ([]string, bool) {
		switch row[0] {
		case "c2":
			return nil, false
		case "c3":
			row[1] = "Renamed"
			return row, true
		default:
			return row, true
		}
	})
	if err != nil {
		t.Fatalf("RewriteFiltered() error = %v", err)
	}

	got, err := ReadAll(dir, "db_conversations")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	want := [][]string{
		headers,
		{"c1", "New conversation", "2024-01-01T00:00:00Z"},
		{"c3", "Renamed", "2024-01-03T00:00:00Z"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadAll() = %v, want %v", got, want)
	}
}

func TestRewriteFilteredNotFound(t *testing.T) {
	dir := t.TempDir()

	err := RewriteFiltered(dir, "missing", func(row []string) ([]string, bool) { return row, true })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RewriteFiltered() error = %v, want ErrNotFound", err)
	}
}

func TestRewriteFilteredLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	if err := CreateWithHeader([]string{"id"}, dir, "f"); err != nil {
		t.Fatalf("CreateWithHeader() error = %v", err)
	}
	if err := RewriteFiltered(dir, "f", func(row []string) ([]string, bool) { return row, true }); err != nil {
		t.Fatalf("RewriteFiltered() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1: %v", len(entries), entries)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()

	if err := CreateWithHeader([]string{"id"}, dir, "f"); err != nil {
		t.Fatalf("CreateWithHeader() error = %v", err)
	}
	if err := Remove(dir, "f"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if Exists(dir, "f") {
		t.Error("Exists() = true after Remove()")
	}
	if err := Remove(dir, "f"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() second call error = %v, want ErrNotFound", err)
	}
}
