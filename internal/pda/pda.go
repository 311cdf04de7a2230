// Package pda derives program-owned addresses: associated token accounts
// for both token programs and Metaplex metadata accounts.
package pda

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	SystemProgramID                 = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	TokenProgramID                  = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ProgramID              = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenAccountProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	MetadataProgramID               = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	SysVarRentPubkey                = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
)

// TokenPrograms lists the token programs in the order they are queried.
var TokenPrograms = []solana.PublicKey{TokenProgramID, Token2022ProgramID}

// ErrNoViableBump is returned when every bump from 255 to 0 lands on curve.
var ErrNoViableBump = errors.New("unable to find a viable program address bump seed")

// IsTokenProgram reports whether id is one of the two token programs.
func IsTokenProgram(id solana.PublicKey) bool {
	return id.Equals(TokenProgramID) || id.Equals(Token2022ProgramID)
}

// FindProgramAddress returns the address derived from seeds plus the
// highest bump byte, searched from 255 down, that lands off the ed25519
// curve.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: %v", ErrNoViableBump, err)
	}
	return addr, bump, nil
}

// AssociatedTokenAddress derives the canonical token account of owner for
// mint under tokenProgram.
func AssociatedTokenAddress(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	if !IsTokenProgram(tokenProgram) {
		return solana.PublicKey{}, fmt.Errorf("%s is not a token program", tokenProgram)
	}
	addr, _, err := FindProgramAddress([][]byte{
		owner[:],
		tokenProgram[:],
		mint[:],
	}, AssociatedTokenAccountProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	return addr, nil
}

// MetadataAddress derives the Metaplex metadata account of mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := FindProgramAddress([][]byte{
		[]byte("metadata"),
		MetadataProgramID[:],
		mint[:],
	}, MetadataProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return addr, nil
}
