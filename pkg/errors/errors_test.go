package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(CodeValidation)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("expected validation details to be allowed")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "provider call failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "missing").WithDetails(map[string]string{"id": "1"})
	wrapped := Wrap(CodeInternal, inner, "outer")

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeInternal {
		t.Fatalf("unexpected code: %s", typed.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, stdErrors.New("socket closed"), "quote fetch")
	dump := Dump(err)

	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(dump.Chain))
	}
}
