package types

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SwapInstructions is the swap broken into the instructions a caller can
// compose into its own transaction.
type SwapInstructions struct {
	TokenLedgerInstruction      *solana.GenericInstruction
	ComputeBudgetInstructions   []*solana.GenericInstruction
	SetupInstructions           []*solana.GenericInstruction
	SwapInstruction             *solana.GenericInstruction
	CleanupInstruction          *solana.GenericInstruction
	AddressLookupTableAddresses []solana.PublicKey
}

type accountMetaWire struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type instructionWire struct {
	ProgramID string            `json:"programId"`
	Accounts  []accountMetaWire `json:"accounts"`
	Data      string            `json:"data"`
}

type swapInstructionsWire struct {
	TokenLedgerInstruction      *instructionWire  `json:"tokenLedgerInstruction"`
	ComputeBudgetInstructions   []instructionWire `json:"computeBudgetInstructions"`
	SetupInstructions           []instructionWire `json:"setupInstructions"`
	SwapInstruction             *instructionWire  `json:"swapInstruction"`
	CleanupInstruction          *instructionWire  `json:"cleanupInstruction"`
	AddressLookupTableAddresses []string          `json:"addressLookupTableAddresses"`
}

// UnmarshalJSON decodes the instructions, parsing every key and data blob.
func (s *SwapInstructions) UnmarshalJSON(data []byte) error {
	var w swapInstructionsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.SwapInstruction == nil {
		return invalid("swapInstruction", "missing")
	}

	var (
		out SwapInstructions
		err error
	)
	if out.SwapInstruction, err = decodeInstruction("swapInstruction", *w.SwapInstruction); err != nil {
		return err
	}
	if w.TokenLedgerInstruction != nil {
		if out.TokenLedgerInstruction, err = decodeInstruction("tokenLedgerInstruction", *w.TokenLedgerInstruction); err != nil {
			return err
		}
	}
	if w.CleanupInstruction != nil {
		if out.CleanupInstruction, err = decodeInstruction("cleanupInstruction", *w.CleanupInstruction); err != nil {
			return err
		}
	}
	if out.ComputeBudgetInstructions, err = decodeInstructions("computeBudgetInstructions", w.ComputeBudgetInstructions); err != nil {
		return err
	}
	if out.SetupInstructions, err = decodeInstructions("setupInstructions", w.SetupInstructions); err != nil {
		return err
	}
	for i, addr := range w.AddressLookupTableAddresses {
		key, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return invalid(fmt.Sprintf("addressLookupTableAddresses[%d]", i), "%v", err)
		}
		out.AddressLookupTableAddresses = append(out.AddressLookupTableAddresses, key)
	}

	*s = out
	return nil
}

// Instructions returns every instruction in execution order.
func (s *SwapInstructions) Instructions() []solana.Instruction {
	var all []solana.Instruction
	if s.TokenLedgerInstruction != nil {
		all = append(all, s.TokenLedgerInstruction)
	}
	for _, ix := range s.ComputeBudgetInstructions {
		all = append(all, ix)
	}
	for _, ix := range s.SetupInstructions {
		all = append(all, ix)
	}
	if s.SwapInstruction != nil {
		all = append(all, s.SwapInstruction)
	}
	if s.CleanupInstruction != nil {
		all = append(all, s.CleanupInstruction)
	}
	return all
}

func decodeInstructions(field string, wires []instructionWire) ([]*solana.GenericInstruction, error) {
	out := make([]*solana.GenericInstruction, 0, len(wires))
	for i, w := range wires {
		ix, err := decodeInstruction(fmt.Sprintf("%s[%d]", field, i), w)
		if err != nil {
			return nil, err
		}
		out = append(out, ix)
	}
	return out, nil
}

func decodeInstruction(field string, w instructionWire) (*solana.GenericInstruction, error) {
	programID, err := solana.PublicKeyFromBase58(w.ProgramID)
	if err != nil {
		return nil, invalid(field+".programId", "%v", err)
	}

	accounts := make(solana.AccountMetaSlice, 0, len(w.Accounts))
	for i, acc := range w.Accounts {
		key, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			return nil, invalid(fmt.Sprintf("%s.accounts[%d].pubkey", field, i), "%v", err)
		}
		accounts = append(accounts, solana.NewAccountMeta(key, acc.IsWritable, acc.IsSigner))
	}

	data, err := base64.StdEncoding.DecodeString(w.Data)
	if err != nil {
		return nil, invalid(field+".data", "base64: %v", err)
	}

	return solana.NewInstruction(programID, accounts, data), nil
}
