package config

import "github.com/astralis-games/planetforge/pkg/types"

// Params holds the protocol parameters for one network. They are fixed
// per network: changing a program address re-keys every derived address
// on that network.
type Params struct {
	Network NetworkType

	// ForgeProgram issues planet tokens and owns the mint and
	// authority derivations.
	ForgeProgram types.Address

	// TokenProgram owns holding account derivations.
	TokenProgram types.Address

	// MetadataProgram owns metadata account derivations.
	MetadataProgram types.Address
}

// MainnetParams returns the mainnet protocol parameters.
func MainnetParams() *Params {
	return &Params{
		Network:         Mainnet,
		ForgeProgram:    types.ForgeProgramID,
		TokenProgram:    types.TokenProgramID,
		MetadataProgram: types.MetadataProgramID,
	}
}

// DevnetParams returns the devnet protocol parameters. Devnet runs the
// same program addresses as mainnet; state is separated by data
// directory.
func DevnetParams() *Params {
	p := MainnetParams()
	p.Network = Devnet
	return p
}

// ParamsFor returns the protocol parameters for the given network.
func ParamsFor(network NetworkType) *Params {
	switch network {
	case Devnet:
		return DevnetParams()
	default:
		return MainnetParams()
	}
}
