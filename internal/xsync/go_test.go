package xsync

import (
	"testing"

	"nhooyr.io/wsframe/internal/test/cmp"
)

func TestGoRecover(t *testing.T) {
	t.Parallel()

	errs := Go(func() error {
		panic("frame handler exploded")
	})

	err := <-errs
	if !cmp.ErrorContains(err, "frame handler exploded") {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestGoResult(t *testing.T) {
	t.Parallel()

	errs := Go(func() error {
		return nil
	})

	err := <-errs
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
