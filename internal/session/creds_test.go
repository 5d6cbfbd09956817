package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCredentialsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")

	in := &Credentials{Token: "tok-abc", Email: "a@b.c"}
	if err := SaveCredentials(path, in); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}

	out, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if out.Token != in.Token || out.Email != in.Email {
		t.Errorf("loaded = %+v, want %+v", out, in)
	}
}

func TestLoadCredentialsMissing(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("err = %v, want ErrNotLoggedIn", err)
	}
}

func TestClearCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := SaveCredentials(path, &Credentials{Token: "t", Email: "e"}); err != nil {
		t.Fatal(err)
	}

	if err := ClearCredentials(path); err != nil {
		t.Fatalf("ClearCredentials: %v", err)
	}
	if _, err := LoadCredentials(path); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("after clear, err = %v, want ErrNotLoggedIn", err)
	}

	// Idempotent.
	if err := ClearCredentials(path); err != nil {
		t.Errorf("second clear: %v", err)
	}
}
