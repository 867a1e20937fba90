package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NotFound("user not found")); got != CodeNotFound {
		t.Fatalf("CodeOf = %q", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain error = %q", got)
	}

	// 包装后 Code 依然能取出来
	wrapped := fmt.Errorf("outer: %w", AlreadyExists("dup"))
	if !Is(wrapped, CodeAlreadyExists) {
		t.Fatal("wrapped AppError should keep its code")
	}
}

func TestPersistenceUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("failed to create user", cause)

	if !Is(err, CodePersistence) {
		t.Fatalf("expected PERSISTENCE, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable via errors.Is")
	}
	if err.Error() != "failed to create user: disk full" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
