package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/astralis-games/planetforge/internal/ledger"
	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// testSetup builds a registry backed by a real ledger holding one mint
// for planetID, and returns valid create params for it.
func testSetup(t *testing.T, planetID string) (*Registry, CreateParams) {
	t.Helper()

	db := storage.NewMemory()
	led := ledger.New(db, types.ForgeProgramID)

	mintAddr, _, err := derive.FindProgramAddress(
		[][]byte{[]byte("planet_nft"), []byte(planetID)}, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive mint: %v", err)
	}
	authSeeds := [][]byte{[]byte("mint_authority"), []byte(planetID)}
	authority, bump, err := derive.FindProgramAddress(authSeeds, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive authority: %v", err)
	}
	if err := led.CreateMint(ledger.Mint{Address: mintAddr, Authority: authority}); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}

	account, _, err := DeriveMetadataAddress(mintAddr)
	if err != nil {
		t.Fatalf("DeriveMetadataAddress: %v", err)
	}

	reg := New(db, led, types.ForgeProgramID)
	params := CreateParams{
		Account:   account,
		Mint:      mintAddr,
		Name:      "Kepler-42b",
		Symbol:    "PLANET",
		URI:       "https://example.com/meta/42.json",
		Authority: derive.NewProof(authSeeds, bump),
	}
	return reg, params
}

func TestCreateMetadata(t *testing.T) {
	reg, params := testSetup(t, "planet-42")

	meta, err := reg.CreateMetadata(params)
	if err != nil {
		t.Fatalf("CreateMetadata: %v", err)
	}

	if meta.Address != params.Account {
		t.Errorf("metadata address = %s, want %s", meta.Address, params.Account)
	}
	if meta.Name != "Kepler-42b" || meta.Symbol != "PLANET" {
		t.Errorf("metadata name/symbol = %q/%q", meta.Name, meta.Symbol)
	}
	if meta.IsMutable {
		t.Error("metadata record is mutable, want immutable")
	}
	if meta.SellerFeeBasisPoints != 0 {
		t.Errorf("seller fee = %d, want 0", meta.SellerFeeBasisPoints)
	}
	if meta.Creators == nil || len(meta.Creators) != 0 {
		t.Errorf("creators = %v, want empty list", meta.Creators)
	}

	got, err := reg.Get(meta.Address)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URI != params.URI {
		t.Errorf("stored URI = %q, want %q", got.URI, params.URI)
	}
}

func TestCreateMetadata_Duplicate(t *testing.T) {
	reg, params := testSetup(t, "planet-42")

	if _, err := reg.CreateMetadata(params); err != nil {
		t.Fatalf("CreateMetadata: %v", err)
	}
	_, err := reg.CreateMetadata(params)
	if !errors.Is(err, ErrMetadataExists) {
		t.Errorf("duplicate CreateMetadata err = %v, want ErrMetadataExists", err)
	}
}

func TestCreateMetadata_AccountMismatch(t *testing.T) {
	reg, params := testSetup(t, "planet-42")

	params.Account[0] ^= 0xff
	_, err := reg.CreateMetadata(params)
	if !errors.Is(err, ErrAddressMismatch) {
		t.Errorf("mismatched account err = %v, want ErrAddressMismatch", err)
	}
}

func TestCreateMetadata_WrongProof(t *testing.T) {
	reg, params := testSetup(t, "planet-42")

	otherSeeds := [][]byte{[]byte("mint_authority"), []byte("planet-43")}
	_, bump, err := derive.FindProgramAddress(otherSeeds, types.ForgeProgramID)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	params.Authority = derive.NewProof(otherSeeds, bump)

	_, err = reg.CreateMetadata(params)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong proof err = %v, want ErrUnauthorized", err)
	}
}

func TestCreateMetadata_MintMissing(t *testing.T) {
	reg, params := testSetup(t, "planet-42")

	var unknown types.Address
	unknown[5] = 9
	account, _, err := DeriveMetadataAddress(unknown)
	if err != nil {
		t.Fatalf("DeriveMetadataAddress: %v", err)
	}
	params.Mint = unknown
	params.Account = account

	_, err = reg.CreateMetadata(params)
	if !errors.Is(err, ErrMintNotFound) {
		t.Errorf("missing mint err = %v, want ErrMintNotFound", err)
	}
}

func TestCreateMetadata_FieldLimits(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{"long name", func(p *CreateParams) { p.Name = strings.Repeat("n", MaxNameLength+1) }, ErrNameTooLong},
		{"long symbol", func(p *CreateParams) { p.Symbol = strings.Repeat("s", MaxSymbolLength+1) }, ErrSymbolTooLong},
		{"long uri", func(p *CreateParams) { p.URI = "https://" + strings.Repeat("u", MaxURILength) }, ErrURITooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, params := testSetup(t, "planet-42")
			tt.mutate(&params)
			_, err := reg.CreateMetadata(params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetByMint(t *testing.T) {
	reg, params := testSetup(t, "planet-42")

	if _, err := reg.CreateMetadata(params); err != nil {
		t.Fatalf("CreateMetadata: %v", err)
	}

	meta, err := reg.GetByMint(params.Mint)
	if err != nil {
		t.Fatalf("GetByMint: %v", err)
	}
	if meta.Address != params.Account {
		t.Errorf("GetByMint address = %s, want %s", meta.Address, params.Account)
	}

	var unknown types.Address
	unknown[1] = 1
	if _, err := reg.GetByMint(unknown); err == nil {
		t.Error("GetByMint for unknown mint should return error")
	}
}

func TestDeriveMetadataAddress_Deterministic(t *testing.T) {
	var mint types.Address
	mint[0] = 1

	a1, b1, err := DeriveMetadataAddress(mint)
	if err != nil {
		t.Fatalf("DeriveMetadataAddress: %v", err)
	}
	a2, b2, err := DeriveMetadataAddress(mint)
	if err != nil {
		t.Fatalf("DeriveMetadataAddress: %v", err)
	}
	if a1 != a2 || b1 != b2 {
		t.Error("DeriveMetadataAddress is not deterministic")
	}

	var other types.Address
	other[0] = 2
	a3, _, err := DeriveMetadataAddress(other)
	if err != nil {
		t.Fatalf("DeriveMetadataAddress: %v", err)
	}
	if a3 == a1 {
		t.Error("different mints derived the same metadata address")
	}
}
