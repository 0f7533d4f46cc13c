package iostreams

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestReadAllLimit(t *testing.T) {
	data, truncated, err := ReadAllLimit(strings.NewReader("hello"), 10)
	if err != nil {
		t.Fatalf("ReadAllLimit() error = %v", err)
	}
	if string(data) != "hello" || truncated {
		t.Errorf("ReadAllLimit() = %q, %v, want hello, false", data, truncated)
	}

	data, truncated, err = ReadAllLimit(strings.NewReader("hello world"), 5)
	if err != nil {
		t.Fatalf("ReadAllLimit() error = %v", err)
	}
	if string(data) != "hello" || !truncated {
		t.Errorf("ReadAllLimit() = %q, %v, want hello, true", data, truncated)
	}

	// Exactly at the limit is not a truncation.
	data, truncated, err = ReadAllLimit(strings.NewReader("hello"), 5)
	if err != nil {
		t.Fatalf("ReadAllLimit() error = %v", err)
	}
	if string(data) != "hello" || truncated {
		t.Errorf("ReadAllLimit() at limit = %q, %v, want hello, false", data, truncated)
	}

	if _, _, err := ReadAllLimit(strings.NewReader("x"), 0); err == nil {
		t.Error("ReadAllLimit() with zero limit, want error")
	}
}

func TestCopyLimit(t *testing.T) {
	var dst bytes.Buffer
	n, err := CopyLimit(&dst, strings.NewReader("abcdef"), 4)
	if err != nil {
		t.Fatalf("CopyLimit() error = %v", err)
	}
	if n != 4 || dst.String() != "abcd" {
		t.Errorf("CopyLimit() = %d, %q, want 4, abcd", n, dst.String())
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"}, // must not split the é sequence
		{"", 3, ""},
		{"hello", 0, "hello"},
		{"a\xffb", 10, "a\xffb"}, // under the cap: passed through untouched
	}
	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncateStringInvalidUTF8(t *testing.T) {
	// An invalid byte early in the input must not make the boundary
	// back-off erase the whole string; it is replaced and the rest is
	// kept up to the cap.
	got := TruncateString("\xff"+strings.Repeat("a", 100), 10)
	if got == "" {
		t.Fatal("TruncateString erased the whole string for invalid utf8 input")
	}
	if len(got) > 10 {
		t.Errorf("TruncateString() len = %d, want <= 10", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("TruncateString() = %q, want valid utf8", got)
	}
	if !strings.HasSuffix(got, "aaaaaaa") {
		t.Errorf("TruncateString() = %q, want the tail after the bad byte kept", got)
	}

	// Invalid byte right at the cap boundary.
	if got := TruncateString("ab\xffcd", 4); got != "ab" {
		t.Errorf("TruncateString(%q, 4) = %q, want %q", "ab\xffcd", got, "ab")
	}
}

func TestLines(t *testing.T) {
	got, err := Lines(strings.NewReader("one\ntwo-long-line\nthree\n"), 7)
	if err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	want := []string{"one", "two-lon", "three"}
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLimitWriter(t *testing.T) {
	w := NewLimitWriter(5)

	if n, err := w.Write([]byte("abc")); n != 3 || err != nil {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if n, err := w.Write([]byte("defgh")); n != 5 || err != nil {
		t.Fatalf("Write() = %d, %v", n, err)
	}

	if w.String() != "abcde" {
		t.Errorf("String() = %q, want abcde", w.String())
	}
	if !w.Truncated() || w.Dropped() != 3 {
		t.Errorf("Truncated() = %v, Dropped() = %d, want true, 3", w.Truncated(), w.Dropped())
	}
}

func TestDrainClose(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "drain")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("leftover"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := DrainClose(f); err != nil {
		t.Errorf("DrainClose() error = %v", err)
	}
}

func TestFollowDeliversAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "followed.log")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lines, err := Follow(ctx, path, FollowConfig{MaxLine: 100})
	if err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	select {
	case line := <-lines:
		if line != "first" {
			t.Errorf("first line = %q, want first", line)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for first line")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	select {
	case line := <-lines:
		if line != "second" {
			t.Errorf("appended line = %q, want second", line)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for appended line")
	}

	cancel()
	// The channel closes once the tail shuts down.
	for range lines {
	}
}
