package types

// Well-known program addresses. The forge program owns the resource and
// authority derivation domains; the metadata program owns the metadata
// derivation domain; the token program identifies the ledger service.
var (
	// ForgeProgramID is the declared address of the planet issuing program.
	ForgeProgramID = MustParseAddress("Fb7uNXapsRwUdsvGDedesLS7D1A4AHk6CeMvrrvTVqwf")

	// TokenProgramID is the address of the ledger/mint service.
	TokenProgramID = MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// MetadataProgramID is the address of the metadata registry service.
	MetadataProgramID = MustParseAddress("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)
