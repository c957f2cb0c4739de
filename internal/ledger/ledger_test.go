package ledger

import (
	"errors"
	"testing"

	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// newTestMint derives a mint and its authority for planetID the way the
// issuing program does, creates the mint record, and returns the
// authority proof.
func newTestMint(t *testing.T, l *Ledger, planetID string) (Mint, derive.Proof) {
	t.Helper()

	mintSeeds := [][]byte{[]byte("planet_nft"), []byte(planetID)}
	mintAddr, _, err := derive.FindProgramAddress(mintSeeds, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive mint: %v", err)
	}

	authSeeds := [][]byte{[]byte("mint_authority"), []byte(planetID)}
	authority, bump, err := derive.FindProgramAddress(authSeeds, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive authority: %v", err)
	}

	m := Mint{Address: mintAddr, Authority: authority, Decimals: 0}
	if err := l.CreateMint(m); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}
	return m, derive.NewProof(authSeeds, bump)
}

func newTestHolding(t *testing.T, l *Ledger, owner types.Address, mint Mint) Holding {
	t.Helper()

	addr, _, err := DeriveHoldingAddress(owner, mint.Address)
	if err != nil {
		t.Fatalf("DeriveHoldingAddress: %v", err)
	}
	h := Holding{Address: addr, Owner: owner, Mint: mint.Address}
	if err := l.CreateHoldingAccount(h); err != nil {
		t.Fatalf("CreateHoldingAccount: %v", err)
	}
	return h
}

func TestCreateMint_Duplicate(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, _ := newTestMint(t, l, "planet-1")

	err := l.CreateMint(m)
	if !errors.Is(err, ErrMintExists) {
		t.Errorf("duplicate CreateMint err = %v, want ErrMintExists", err)
	}
}

func TestCreateMint_ZeroAddress(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)

	if err := l.CreateMint(Mint{Authority: testAddr(1)}); err == nil {
		t.Error("CreateMint with zero mint address should fail")
	}
	if err := l.CreateMint(Mint{Address: testAddr(1)}); err == nil {
		t.Error("CreateMint with zero authority should fail")
	}
}

func TestCreateMint_IgnoresSeedSupply(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)

	m := Mint{Address: testAddr(1), Authority: testAddr(2), Supply: 999}
	if err := l.CreateMint(m); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}

	got, err := l.GetMint(m.Address)
	if err != nil {
		t.Fatalf("GetMint: %v", err)
	}
	if got.Supply != 0 {
		t.Errorf("new mint supply = %d, want 0", got.Supply)
	}
}

func TestCreateHoldingAccount(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, _ := newTestMint(t, l, "planet-1")
	owner := testAddr(7)

	h := newTestHolding(t, l, owner, m)

	got, err := l.GetHolding(h.Address)
	if err != nil {
		t.Fatalf("GetHolding: %v", err)
	}
	if got.Amount != 0 {
		t.Errorf("new holding amount = %d, want 0", got.Amount)
	}
	if got.Owner != owner || got.Mint != m.Address {
		t.Errorf("holding = %+v, want owner %s mint %s", got, owner.Short(), m.Address.Short())
	}

	err = l.CreateHoldingAccount(h)
	if !errors.Is(err, ErrHoldingExists) {
		t.Errorf("duplicate CreateHoldingAccount err = %v, want ErrHoldingExists", err)
	}
}

func TestCreateHoldingAccount_MintMissing(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)

	h := Holding{Address: testAddr(1), Owner: testAddr(2), Mint: testAddr(3)}
	err := l.CreateHoldingAccount(h)
	if !errors.Is(err, ErrMintNotFound) {
		t.Errorf("CreateHoldingAccount without mint err = %v, want ErrMintNotFound", err)
	}
}

func TestMintTo(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, proof := newTestMint(t, l, "planet-1")
	h := newTestHolding(t, l, testAddr(7), m)

	if err := l.MintTo(m.Address, h.Address, 1, proof); err != nil {
		t.Fatalf("MintTo: %v", err)
	}

	gotMint, err := l.GetMint(m.Address)
	if err != nil {
		t.Fatalf("GetMint: %v", err)
	}
	if gotMint.Supply != 1 {
		t.Errorf("supply = %d, want 1", gotMint.Supply)
	}

	gotHolding, err := l.GetHolding(h.Address)
	if err != nil {
		t.Fatalf("GetHolding: %v", err)
	}
	if gotHolding.Amount != 1 {
		t.Errorf("holding amount = %d, want 1", gotHolding.Amount)
	}
}

func TestMintTo_Accumulates(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, proof := newTestMint(t, l, "planet-1")
	h := newTestHolding(t, l, testAddr(7), m)

	for i := 0; i < 3; i++ {
		if err := l.MintTo(m.Address, h.Address, 1, proof); err != nil {
			t.Fatalf("MintTo #%d: %v", i, err)
		}
	}

	gotMint, _ := l.GetMint(m.Address)
	if gotMint.Supply != 3 {
		t.Errorf("supply = %d, want 3", gotMint.Supply)
	}
}

func TestMintTo_WrongAuthorityProof(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, _ := newTestMint(t, l, "planet-1")
	_, otherProof := newTestMint(t, l, "planet-2")
	h := newTestHolding(t, l, testAddr(7), m)

	// Valid proof, but for a different planet's authority.
	err := l.MintTo(m.Address, h.Address, 1, otherProof)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("MintTo with foreign proof err = %v, want ErrUnauthorized", err)
	}
}

func TestMintTo_TamperedProof(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, proof := newTestMint(t, l, "planet-1")
	h := newTestHolding(t, l, testAddr(7), m)

	proof.Seeds[1] = []byte("planet-999")
	err := l.MintTo(m.Address, h.Address, 1, proof)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("MintTo with tampered proof err = %v, want ErrUnauthorized", err)
	}

	// Nothing was issued.
	gotMint, _ := l.GetMint(m.Address)
	if gotMint.Supply != 0 {
		t.Errorf("supply after rejected MintTo = %d, want 0", gotMint.Supply)
	}
}

func TestMintTo_WrongProgramLedger(t *testing.T) {
	// A ledger configured for a different authority program rejects
	// proofs that verify fine under the issuing program.
	l := New(storage.NewMemory(), types.TokenProgramID)

	mintSeeds := [][]byte{[]byte("planet_nft"), []byte("planet-1")}
	mintAddr, _, err := derive.FindProgramAddress(mintSeeds, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive mint: %v", err)
	}
	authSeeds := [][]byte{[]byte("mint_authority"), []byte("planet-1")}
	authority, bump, err := derive.FindProgramAddress(authSeeds, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive authority: %v", err)
	}
	if err := l.CreateMint(Mint{Address: mintAddr, Authority: authority}); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}
	h := newTestHolding(t, l, testAddr(7), Mint{Address: mintAddr})

	err = l.MintTo(mintAddr, h.Address, 1, derive.NewProof(authSeeds, bump))
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("MintTo under wrong program err = %v, want ErrUnauthorized", err)
	}
}

func TestMintTo_Validation(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m, proof := newTestMint(t, l, "planet-1")
	h := newTestHolding(t, l, testAddr(7), m)

	if err := l.MintTo(m.Address, h.Address, 0, proof); !errors.Is(err, ErrZeroAmount) {
		t.Errorf("zero amount err = %v, want ErrZeroAmount", err)
	}
	if err := l.MintTo(testAddr(99), h.Address, 1, proof); !errors.Is(err, ErrMintNotFound) {
		t.Errorf("unknown mint err = %v, want ErrMintNotFound", err)
	}
	if err := l.MintTo(m.Address, testAddr(99), 1, proof); !errors.Is(err, ErrHoldingNotFound) {
		t.Errorf("unknown holding err = %v, want ErrHoldingNotFound", err)
	}
}

func TestMintTo_WrongMintHolding(t *testing.T) {
	l := New(storage.NewMemory(), types.ForgeProgramID)
	m1, proof1 := newTestMint(t, l, "planet-1")
	m2, _ := newTestMint(t, l, "planet-2")
	h2 := newTestHolding(t, l, testAddr(7), m2)

	// proof1 reproduces m1's authority, but the holding belongs to m2.
	err := l.MintTo(m1.Address, h2.Address, 1, proof1)
	if !errors.Is(err, ErrWrongMint) {
		t.Errorf("MintTo into foreign holding err = %v, want ErrWrongMint", err)
	}
}

func TestDeriveHoldingAddress(t *testing.T) {
	owner := testAddr(1)
	mint := testAddr(2)

	a1, bump1, err := DeriveHoldingAddress(owner, mint)
	if err != nil {
		t.Fatalf("DeriveHoldingAddress: %v", err)
	}
	a2, bump2, err := DeriveHoldingAddress(owner, mint)
	if err != nil {
		t.Fatalf("DeriveHoldingAddress: %v", err)
	}
	if a1 != a2 || bump1 != bump2 {
		t.Error("DeriveHoldingAddress is not deterministic")
	}

	b, _, err := DeriveHoldingAddress(testAddr(3), mint)
	if err != nil {
		t.Fatalf("DeriveHoldingAddress: %v", err)
	}
	if b == a1 {
		t.Error("different owners derived the same holding address")
	}
}
