package storage

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	a := ObjectKey("Holiday.JPG")
	b := ObjectKey("Holiday.JPG")

	if !strings.HasPrefix(a, "posts/") {
		t.Fatalf("expected posts/ prefix, got %q", a)
	}
	if !strings.HasSuffix(a, ".jpg") {
		t.Fatalf("expected lower-cased extension, got %q", a)
	}
	if a == b {
		t.Fatal("expected distinct keys for repeated uploads")
	}
	if got := ObjectKey("noext"); strings.Contains(strings.TrimPrefix(got, "posts/"), ".") {
		t.Fatalf("unexpected extension in %q", got)
	}
}
