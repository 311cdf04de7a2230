// Package instructions builds the three instructions a transfer needs:
// a native SOL transfer, associated token account creation and a checked
// token transfer. Token instructions take the token program explicitly so
// the same builders serve Token and Token-2022 mints.
package instructions

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/AlexZinkM/solwallet/internal/pda"
)

// transferCheckedIndex is the TransferChecked discriminator in both token programs.
const transferCheckedIndex uint8 = 12

// SystemTransfer moves lamports from the fee payer to recipient.
func SystemTransfer(from, to solana.PublicKey, lamports uint64) solana.Instruction {
	return system.NewTransferInstruction(lamports, from, to).Build()
}

// CreateAssociatedTokenAccount creates the canonical token account ata of
// owner for mint, paid by payer.
func CreateAssociatedTokenAccount(payer, ata, owner, mint, tokenProgram solana.PublicKey) (solana.Instruction, error) {
	if !pda.IsTokenProgram(tokenProgram) {
		return nil, fmt.Errorf("%s is not a token program", tokenProgram)
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(ata, true, false),
		solana.NewAccountMeta(owner, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(pda.SystemProgramID, false, false),
		solana.NewAccountMeta(tokenProgram, false, false),
		solana.NewAccountMeta(pda.SysVarRentPubkey, false, false),
	}
	return solana.NewInstruction(pda.AssociatedTokenAccountProgramID, accounts, []byte{}), nil
}

// TransferChecked moves amount base units of mint from source to
// destination. The program rejects the transfer unless decimals matches the
// mint.
func TransferChecked(source, mint, destination, owner, tokenProgram solana.PublicKey, amount uint64, decimals uint8) (solana.Instruction, error) {
	if !pda.IsTokenProgram(tokenProgram) {
		return nil, fmt.Errorf("%s is not a token program", tokenProgram)
	}
	data, err := encodeTransferChecked(amount, decimals)
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(source, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(destination, true, false),
		solana.NewAccountMeta(owner, false, true),
	}
	return solana.NewInstruction(tokenProgram, accounts, data), nil
}

func encodeTransferChecked(amount uint64, decimals uint8) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(transferCheckedIndex); err != nil {
		return nil, fmt.Errorf("failed to encode instruction: %w", err)
	}
	if err := enc.WriteUint64(amount, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode amount: %w", err)
	}
	if err := enc.WriteUint8(decimals); err != nil {
		return nil, fmt.Errorf("failed to encode decimals: %w", err)
	}
	return buf.Bytes(), nil
}
