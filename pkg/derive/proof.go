package derive

import "github.com/astralis-games/planetforge/pkg/types"

// Proof carries the seeds and bump that reproduce a derived address.
// A valid proof for an address owned by a program stands in for a
// signature from that address, which cannot exist.
type Proof struct {
	Seeds [][]byte `json:"seeds"`
	Bump  uint8    `json:"bump"`
}

// NewProof builds a proof from the seeds passed to FindProgramAddress
// and the bump it returned. The seed slices are copied.
func NewProof(seeds [][]byte, bump uint8) Proof {
	cp := make([][]byte, len(seeds))
	for i, s := range seeds {
		cp[i] = append([]byte(nil), s...)
	}
	return Proof{Seeds: cp, Bump: bump}
}

// Address re-derives the address the proof stands for under program.
func (p Proof) Address(program types.Address) (types.Address, error) {
	withBump := make([][]byte, len(p.Seeds)+1)
	copy(withBump, p.Seeds)
	withBump[len(p.Seeds)] = []byte{p.Bump}
	return ProgramAddress(withBump, program)
}

// Verify reports whether the proof reproduces want under program.
func (p Proof) Verify(program, want types.Address) bool {
	got, err := p.Address(program)
	return err == nil && got == want
}
