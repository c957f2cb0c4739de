package wallet

import (
	"bytes"
	"errors"
	"testing"
)

// fastParams keeps the KDF cheap so tests stay quick.
func fastParams() KDFParams {
	return KDFParams{Time: 1, Memory: 64, Threads: 1}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	seed := testSeedBytes(t)
	password := []byte("correct horse battery staple")

	sealed, err := Seal(seed, password, fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	opened, err := Open(sealed, password)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if !bytes.Equal(opened, seed) {
		t.Error("opened seed differs from sealed seed")
	}
}

func TestOpen_WrongPassword(t *testing.T) {
	sealed, err := Seal([]byte("seed material"), []byte("correct"), fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	_, err = Open(sealed, []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Open() error = %v, want ErrWrongPassword", err)
	}
}

func TestOpen_TooShort(t *testing.T) {
	if _, err := Open([]byte("too short"), []byte("pass")); err == nil {
		t.Error("Open() accepted a truncated seal")
	}
}

func TestOpen_UnknownVersion(t *testing.T) {
	sealed, err := Seal([]byte("seed material"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	sealed[0] = 99
	if _, err := Open(sealed, []byte("pass")); err == nil {
		t.Error("Open() accepted an unknown seal version")
	}
}

func TestOpen_TamperedCiphertext(t *testing.T) {
	sealed, err := Seal([]byte("seed material"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	sealed[len(sealed)-1] ^= 0xff
	if _, err := Open(sealed, []byte("pass")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Open() error = %v, want ErrWrongPassword", err)
	}
}

func TestSeal_FreshSaltAndNonce(t *testing.T) {
	seed := []byte("seed material")
	password := []byte("pass")

	s1, err := Seal(seed, password, fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	s2, err := Seal(seed, password, fastParams())
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	if bytes.Equal(s1, s2) {
		t.Error("two seals of the same seed are identical")
	}
	d1, _ := Open(s1, password)
	d2, _ := Open(s2, password)
	if !bytes.Equal(d1, seed) || !bytes.Equal(d2, seed) {
		t.Error("seals do not both open to the seed")
	}
}

func TestSeal_ParamsTravelInSeal(t *testing.T) {
	// Sealed with non-default parameters; Open reads them from the
	// header without being told.
	params := KDFParams{Time: 2, Memory: 32, Threads: 2}
	sealed, err := Seal([]byte("seed material"), []byte("pass"), params)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	opened, err := Open(sealed, []byte("pass"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if string(opened) != "seed material" {
		t.Errorf("opened = %q", opened)
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		t.Errorf("DefaultParams() has zero fields: %+v", p)
	}
}
