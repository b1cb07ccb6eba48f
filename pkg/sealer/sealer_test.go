package sealer

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	s, err := New(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSealOpen(t *testing.T) {
	s := newTestSealer(t)

	token, err := s.Seal("65f1c0ffee0000000000aaaa", "b5a7e9f0-1c2d-4e3f-8a9b-0c1d2e3f4a5b")
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	bookingID, cancelToken, err := s.Open(token)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if bookingID != "65f1c0ffee0000000000aaaa" {
		t.Errorf("bookingID = %q", bookingID)
	}
	if cancelToken != "b5a7e9f0-1c2d-4e3f-8a9b-0c1d2e3f4a5b" {
		t.Errorf("cancelToken = %q", cancelToken)
	}
}

func TestOpen_RejectsTampering(t *testing.T) {
	s := newTestSealer(t)

	token, err := s.Seal("id", "token")
	if err != nil {
		t.Fatal(err)
	}

	raw, _ := base64.RawURLEncoding.DecodeString(token)
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if _, _, err := s.Open(tampered); err == nil {
		t.Error("Open() should reject a tampered token")
	}
}

func TestNew_RejectsBadKeys(t *testing.T) {
	if _, err := New("not-base64!!"); err == nil {
		t.Error("New() should reject malformed base64")
	}
	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	if _, err := New(short); err == nil {
		t.Error("New() should reject keys shorter than 32 bytes")
	}
}
