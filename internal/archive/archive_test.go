package archive

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/astralis-games/planetforge/internal/registry"
	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/crypto"
	"github.com/astralis-games/planetforge/pkg/types"
)

var testTraits = Traits{
	Color:         "turquoise",
	AvgTemp:       14.5,
	OceanCoverage: 0.62,
	Gravity:       1.02,
}

func TestEarn(t *testing.T) {
	a := New(storage.NewMemory())

	rec, err := a.Earn("zefram@example.com", "planet-42", "Kepler-42b", testTraits)
	if err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if rec.Minted {
		t.Error("new record is marked minted")
	}
	if rec.EarnedAt.IsZero() {
		t.Error("EarnedAt not set")
	}

	got, err := a.Get("zefram@example.com", "planet-42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PlanetName != "Kepler-42b" {
		t.Errorf("PlanetName = %q, want %q", got.PlanetName, "Kepler-42b")
	}
	if got.Traits != testTraits {
		t.Errorf("Traits = %+v, want %+v", got.Traits, testTraits)
	}
}

func TestEarn_EmptyFields(t *testing.T) {
	a := New(storage.NewMemory())

	if _, err := a.Earn("", "planet-42", "x", testTraits); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty player err = %v, want ErrEmptyField", err)
	}
	if _, err := a.Earn("p@example.com", "", "x", testTraits); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty planet id err = %v, want ErrEmptyField", err)
	}
}

func TestEarn_RefreshKeepsMintState(t *testing.T) {
	a := New(storage.NewMemory())

	first, err := a.Earn("p@example.com", "planet-42", "Old Name", testTraits)
	if err != nil {
		t.Fatalf("Earn: %v", err)
	}

	var mint types.Address
	mint[0] = 1
	if _, err := a.MarkMinted("p@example.com", "planet-42", mint, types.Digest{1}, "https://example.com/m.json"); err != nil {
		t.Fatalf("MarkMinted: %v", err)
	}

	// Earning again renames but keeps mint state and earn time.
	again, err := a.Earn("p@example.com", "planet-42", "New Name", testTraits)
	if err != nil {
		t.Fatalf("Earn again: %v", err)
	}
	if again.PlanetName != "New Name" {
		t.Errorf("PlanetName = %q, want %q", again.PlanetName, "New Name")
	}
	if !again.Minted || again.Mint != mint {
		t.Error("re-earning cleared mint state")
	}
	if !again.EarnedAt.Equal(first.EarnedAt) {
		t.Errorf("EarnedAt changed on re-earn: %v -> %v", first.EarnedAt, again.EarnedAt)
	}
}

func TestGet_Missing(t *testing.T) {
	a := New(storage.NewMemory())

	_, err := a.Get("p@example.com", "planet-42")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Get missing err = %v, want ErrRecordNotFound", err)
	}
}

func TestListEarnedAndUnminted(t *testing.T) {
	a := New(storage.NewMemory())
	player := "p@example.com"

	// Spread the earn times an hour apart so the expected order is
	// unambiguous: planet-3 earned last, planet-1 first.
	base := time.Now().UTC().Add(-24 * time.Hour)
	for i, id := range []string{"planet-1", "planet-2", "planet-3"} {
		if _, err := a.Earn(player, id, "Planet "+id, testTraits); err != nil {
			t.Fatalf("Earn(%s): %v", id, err)
		}
		rec, err := a.Get(player, id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		rec.EarnedAt = base.Add(time.Duration(i) * time.Hour)
		if err := a.store.Put(rec); err != nil {
			t.Fatalf("Put(%s): %v", id, err)
		}
	}
	if _, err := a.Earn("other@example.com", "planet-9", "Elsewhere", testTraits); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	var mint types.Address
	mint[0] = 1
	if _, err := a.MarkMinted(player, "planet-2", mint, types.Digest{2}, "u"); err != nil {
		t.Fatalf("MarkMinted: %v", err)
	}

	earned, err := a.ListEarned(player)
	if err != nil {
		t.Fatalf("ListEarned: %v", err)
	}
	if len(earned) != 3 {
		t.Fatalf("ListEarned = %d records, want 3", len(earned))
	}
	for i, want := range []string{"planet-3", "planet-2", "planet-1"} {
		if earned[i].PlanetID != want {
			t.Errorf("earned[%d] = %s, want %s (newest first)", i, earned[i].PlanetID, want)
		}
	}

	unminted, err := a.ListUnminted(player)
	if err != nil {
		t.Fatalf("ListUnminted: %v", err)
	}
	if len(unminted) != 2 {
		t.Fatalf("ListUnminted = %d records, want 2", len(unminted))
	}
	for i, want := range []string{"planet-3", "planet-1"} {
		if unminted[i].PlanetID != want {
			t.Errorf("unminted[%d] = %s, want %s (newest first)", i, unminted[i].PlanetID, want)
		}
	}
}

func TestList_Empty(t *testing.T) {
	a := New(storage.NewMemory())

	earned, err := a.ListEarned("nobody@example.com")
	if err != nil {
		t.Fatalf("ListEarned: %v", err)
	}
	if earned == nil || len(earned) != 0 {
		t.Errorf("ListEarned = %v, want empty slice", earned)
	}
}

func TestMarkMinted(t *testing.T) {
	a := New(storage.NewMemory())
	player := "p@example.com"

	if _, err := a.Earn(player, "planet-42", "Kepler-42b", testTraits); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	var mint types.Address
	mint[0] = 7
	sig := types.Digest{9}
	uri := "https://example.com/metadata/planet-42.json"

	rec, err := a.MarkMinted(player, "planet-42", mint, sig, uri)
	if err != nil {
		t.Fatalf("MarkMinted: %v", err)
	}
	if !rec.Minted || rec.Mint != mint || rec.Signature != sig || rec.MetadataURI != uri {
		t.Errorf("record after MarkMinted = %+v", rec)
	}

	// Second mark is rejected.
	_, err = a.MarkMinted(player, "planet-42", mint, sig, uri)
	if !errors.Is(err, ErrAlreadyMinted) {
		t.Errorf("second MarkMinted err = %v, want ErrAlreadyMinted", err)
	}
}

func TestMarkMinted_Missing(t *testing.T) {
	a := New(storage.NewMemory())

	_, err := a.MarkMinted("p@example.com", "planet-42", types.Address{}, types.Digest{}, "")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("MarkMinted missing err = %v, want ErrRecordNotFound", err)
	}
}

func TestSortRecords(t *testing.T) {
	now := time.Now().UTC()
	records := []Record{
		{PlanetID: "planet-b", EarnedAt: now},
		{PlanetID: "planet-a", EarnedAt: now},
		{PlanetID: "planet-c", EarnedAt: now.Add(-time.Hour)},
	}
	sortRecords(records)

	// Newest earn time first; ties break on planet ID.
	want := []string{"planet-a", "planet-b", "planet-c"}
	for i, id := range want {
		if records[i].PlanetID != id {
			t.Fatalf("records[%d] = %s, want %s", i, records[i].PlanetID, id)
		}
	}
}

func TestUploadMetadata(t *testing.T) {
	a := New(storage.NewMemory())

	if _, err := a.Earn("p@example.com", "planet-42", "Kepler-42b", testTraits); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	uri, err := a.UploadMetadata("p@example.com", "planet-42", "https://example.com")
	if err != nil {
		t.Fatalf("UploadMetadata: %v", err)
	}
	if uri != "https://example.com/metadata/planet-42.json" {
		t.Errorf("uri = %q", uri)
	}

	data, err := a.Descriptor("planet-42")
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		t.Fatalf("unmarshal descriptor: %v", err)
	}
	if desc.Name != "Kepler-42b" {
		t.Errorf("Name = %q, want %q", desc.Name, "Kepler-42b")
	}
	if desc.Symbol != "PLANET" {
		t.Errorf("Symbol = %q, want PLANET", desc.Symbol)
	}
}

func TestUploadMetadata_MissingRecord(t *testing.T) {
	a := New(storage.NewMemory())

	if _, err := a.UploadMetadata("p@example.com", "nope", "https://example.com"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestDescriptor_Missing(t *testing.T) {
	a := New(storage.NewMemory())

	if _, err := a.Descriptor("nope"); !errors.Is(err, ErrDescriptorNotFound) {
		t.Errorf("err = %v, want ErrDescriptorNotFound", err)
	}
}

func TestStore_SharedDatabaseKeyspaces(t *testing.T) {
	db := storage.NewMemory()
	arcStore := NewStore(db)
	regStore := registry.NewStore(db)

	// A metadata account whose address equals the descriptor digest of
	// the planet id lands on the same logical key in both stores. With
	// per-store namespaces the two writes must not clobber each other.
	planetID := "planet-42"
	digest := crypto.Digest([]byte(planetID))
	var metaAddr types.Address
	copy(metaAddr[:], digest[:])

	meta := &registry.Metadata{Address: metaAddr, Name: "Kepler-42b", Symbol: "PLANET"}
	if err := regStore.Put(meta); err != nil {
		t.Fatalf("registry Put: %v", err)
	}
	if err := arcStore.PutDescriptor(planetID, []byte(`{"name":"Kepler-42b"}`)); err != nil {
		t.Fatalf("PutDescriptor: %v", err)
	}

	got, err := regStore.Get(metaAddr)
	if err != nil {
		t.Fatalf("metadata record lost after descriptor write: %v", err)
	}
	if got.Name != "Kepler-42b" {
		t.Errorf("metadata Name = %q, want %q", got.Name, "Kepler-42b")
	}
	doc, err := arcStore.GetDescriptor(planetID)
	if err != nil {
		t.Fatalf("GetDescriptor: %v", err)
	}
	if string(doc) != `{"name":"Kepler-42b"}` {
		t.Errorf("descriptor = %s", doc)
	}
}
