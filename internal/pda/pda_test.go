package pda

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	owner    = solana.MustPublicKeyFromBase58("HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk")
)

func TestFindProgramAddressMatchesLibrary(t *testing.T) {
	seeds := [][]byte{[]byte("seed"), owner[:]}

	addr, bump, err := FindProgramAddress(seeds, MetadataProgramID)
	require.NoError(t, err)

	want, wantBump, err := solana.FindProgramAddress(seeds, MetadataProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, addr)
	assert.Equal(t, wantBump, bump)
	assert.Len(t, seeds, 2, "caller seeds must not be extended")

	// Same bump reproduces the address directly.
	direct, err := solana.CreateProgramAddress(append(seeds, []byte{bump}), MetadataProgramID)
	require.NoError(t, err)
	assert.Equal(t, addr, direct)
}

func TestFindProgramAddressHighestBump(t *testing.T) {
	for _, mint := range []solana.PublicKey{usdcMint, owner, MetadataProgramID} {
		seeds := [][]byte{[]byte("metadata"), MetadataProgramID[:], mint[:]}
		_, bump, err := FindProgramAddress(seeds, MetadataProgramID)
		require.NoError(t, err)

		// Every bump above the chosen one lands on the curve.
		for higher := 255; higher > int(bump); higher-- {
			_, err := solana.CreateProgramAddress(append(seeds, []byte{byte(higher)}), MetadataProgramID)
			assert.Error(t, err, "bump %d", higher)
		}
	}
}

func TestAssociatedTokenAddress(t *testing.T) {
	got, err := AssociatedTokenAddress(owner, usdcMint, TokenProgramID)
	require.NoError(t, err)

	want, _, err := solana.FindAssociatedTokenAddress(owner, usdcMint)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got2022, err := AssociatedTokenAddress(owner, usdcMint, Token2022ProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, got, got2022)
}

func TestAssociatedTokenAddressRejectsOtherPrograms(t *testing.T) {
	_, err := AssociatedTokenAddress(owner, usdcMint, SystemProgramID)
	assert.Error(t, err)
}

func TestMetadataAddress(t *testing.T) {
	got, err := MetadataAddress(usdcMint)
	require.NoError(t, err)

	want, _, err := solana.FindTokenMetadataAddress(usdcMint)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIsTokenProgram(t *testing.T) {
	assert.True(t, IsTokenProgram(TokenProgramID))
	assert.True(t, IsTokenProgram(Token2022ProgramID))
	assert.False(t, IsTokenProgram(AssociatedTokenAccountProgramID))
}
