package crypto

import (
	"strings"
	"testing"
)

// cheap parameters keep the tests fast
var testParams = KeyParams{Memory: 1024, Iterations: 1, Parallelism: 1}

func TestSealer_RoundTrip(t *testing.T) {
	s := NewSealerWithParams("passphrase", testParams)

	sealed, err := s.Seal("bearer-token")
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}
	if !strings.HasPrefix(sealed, "v1.") {
		t.Errorf("Seal() = %q, want v1. prefix", sealed)
	}
	if strings.Contains(sealed, "bearer-token") {
		t.Error("Seal() leaked plaintext")
	}

	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if plain != "bearer-token" {
		t.Errorf("Open() = %q, want %q", plain, "bearer-token")
	}
}

func TestSealer_UniqueCiphertexts(t *testing.T) {
	s := NewSealerWithParams("passphrase", testParams)

	a, _ := s.Seal("same")
	b, _ := s.Seal("same")
	if a == b {
		t.Error("Seal() produced identical output for two calls")
	}
}

func TestSealer_WrongPassphrase(t *testing.T) {
	sealed, err := NewSealerWithParams("right", testParams).Seal("secret")
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}

	if _, err := NewSealerWithParams("wrong", testParams).Open(sealed); err != ErrSealedValueInvalid {
		t.Errorf("Open() error = %v, want ErrSealedValueInvalid", err)
	}
}

func TestSealer_Garbage(t *testing.T) {
	s := NewSealerWithParams("passphrase", testParams)

	for _, in := range []string{"", "plain", "v1.", "v1.!!!", "v1.AAAA"} {
		if _, err := s.Open(in); err != ErrSealedValueInvalid {
			t.Errorf("Open(%q) error = %v, want ErrSealedValueInvalid", in, err)
		}
	}
}

func TestSealer_DisabledPassThrough(t *testing.T) {
	s := NewSealer("")
	if s.Enabled() {
		t.Fatal("Enabled() = true for empty passphrase")
	}

	sealed, err := s.Seal("token")
	if err != nil || sealed != "v0.token" {
		t.Errorf("Seal() = %q, %v; want %q", sealed, err, "v0.token")
	}

	plain, err := s.Open(sealed)
	if err != nil || plain != "token" {
		t.Errorf("Open(%q) = %q, %v; want %q", sealed, plain, err, "token")
	}

	plain, err = s.Open("token")
	if err != nil || plain != "token" {
		t.Errorf("Open() of unprefixed value = %q, %v; want pass-through", plain, err)
	}

	if _, err := s.Open("v1.AAAA"); err != ErrSealedValueInvalid {
		t.Errorf("Open() of sealed value without key error = %v, want ErrSealedValueInvalid", err)
	}
}

func TestSealer_DisabledKeepsTokenLookingSealed(t *testing.T) {
	s := NewSealer("")

	sealed, err := s.Seal("v1.looks-sealed")
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}

	plain, err := s.Open(sealed)
	if err != nil || plain != "v1.looks-sealed" {
		t.Errorf("Open(%q) = %q, %v; want original token", sealed, plain, err)
	}
}

func TestSealer_EnabledRejectsPlainValue(t *testing.T) {
	s := NewSealerWithParams("pass", KeyParams{Memory: 1024, Iterations: 1, Parallelism: 1})

	if _, err := s.Open("v0.token"); err != ErrSealedValueInvalid {
		t.Errorf("Open() of plain value with key error = %v, want ErrSealedValueInvalid", err)
	}
}

func TestSealer_NilIsDisabled(t *testing.T) {
	var s *Sealer
	if s.Enabled() {
		t.Error("nil Sealer reports Enabled")
	}
}
