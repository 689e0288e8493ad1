package wallet

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jup-ag/pkg/types"
)

type fakeRPC struct {
	simulated  *solana.Transaction
	simulation *rpc.SimulateTransactionResult
	sent       *solana.Transaction
	sendOpts   rpc.TransactionOpts
	statuses   []*rpc.SignatureStatusesResult
	statusCall int
	height     uint64
	balance    uint64
	txResult   *rpc.GetTransactionResult
}

func (f *fakeRPC) SimulateTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error) {
	f.simulated = tx
	return &rpc.SimulateTransactionResponse{Value: f.simulation}, nil
}

func (f *fakeRPC) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	f.sent = tx
	f.sendOpts = opts
	return tx.Signatures[0], nil
}

func (f *fakeRPC) GetSignatureStatuses(_ context.Context, _ bool, _ ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	if f.statusCall >= len(f.statuses) {
		return nil, rpc.ErrNotFound
	}
	status := f.statuses[f.statusCall]
	f.statusCall++
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{status}}, nil
}

func (f *fakeRPC) GetTransaction(_ context.Context, _ solana.Signature, _ *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error) {
	if f.txResult == nil {
		return nil, rpc.ErrNotFound
	}
	return f.txResult, nil
}

func (f *fakeRPC) GetBalance(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	return &rpc.GetBalanceResult{Value: f.balance}, nil
}

func (f *fakeRPC) GetBlockHeight(_ context.Context, _ rpc.CommitmentType) (uint64, error) {
	return f.height, nil
}

func writeKeygenFile(t *testing.T, key solana.PrivateKey) string {
	t.Helper()

	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newTestWallet(t *testing.T, rpcClient RPC) (*SolanaWallet, solana.PrivateKey) {
	t.Helper()

	key := solana.NewWallet().PrivateKey
	w, err := newSolanaWallet(Config{
		Keypair:    key.String(),
		Commitment: "confirmed",
	}, rpcClient, zerolog.Nop())
	require.NoError(t, err)
	return w, key
}

// swapTransactionFor builds what the swap endpoint returns: an unsigned
// transaction paid by payer with an empty signature slot.
func swapTransactionFor(t *testing.T, payer solana.PublicKey) *types.SwapTransaction {
	t.Helper()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(10, payer, solana.NewWallet().PublicKey()).Build(),
		},
		solana.Hash{7},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	tx.Signatures = []solana.Signature{{}}

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return &types.SwapTransaction{Raw: raw, LastValidBlockHeight: 100}
}

func TestLoadPrivateKey(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	fromFile, err := LoadPrivateKey(writeKeygenFile(t, key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), fromFile.PublicKey())

	fromBase58, err := LoadPrivateKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), fromBase58.PublicKey())

	_, err = LoadPrivateKey("definitely not a key")
	assert.Error(t, err)
}

func TestLoadPrivateKey_Malformed(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	mismatched := append(solana.PrivateKey(nil), key...)
	mismatched[63] ^= 0xff

	truncated := filepath.Join(t.TempDir(), "truncated.json")
	require.NoError(t, os.WriteFile(truncated, []byte(`[1,2,3]`), 0o600))

	tests := []struct {
		name    string
		keypair string
	}{
		{"truncated keygen file", truncated},
		{"keygen file with wrong public half", writeKeygenFile(t, mismatched)},
		{"short base58 key", solana.PrivateKey([]byte{1, 2, 3}).String()},
		{"base58 key with wrong public half", mismatched.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPrivateKey(tt.keypair)
			assert.Error(t, err)

			assert.NotPanics(t, func() {
				_, err = newSolanaWallet(Config{Keypair: tt.keypair}, &fakeRPC{}, zerolog.Nop())
			})
			assert.Error(t, err)
		})
	}
}

func TestParseCommitment(t *testing.T) {
	tests := map[string]rpc.CommitmentType{
		"":          rpc.CommitmentConfirmed,
		"confirmed": rpc.CommitmentConfirmed,
		"Finalized": rpc.CommitmentFinalized,
		"processed": rpc.CommitmentProcessed,
	}
	for in, want := range tests {
		got, err := ParseCommitment(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseCommitment("recent")
	assert.Error(t, err)
}

func TestNewSolanaWallet_Errors(t *testing.T) {
	_, err := NewSolanaWallet(Config{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = newSolanaWallet(Config{Keypair: "/does/not/exist.json"}, &fakeRPC{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = newSolanaWallet(Config{Keypair: solana.NewWallet().PrivateKey.String(), Commitment: "max"}, &fakeRPC{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSign(t *testing.T) {
	w, key := newTestWallet(t, &fakeRPC{})

	tx, err := w.Sign(swapTransactionFor(t, key.PublicKey()))
	require.NoError(t, err)

	require.Len(t, tx.Signatures, 1)
	assert.NotEqual(t, solana.Signature{}, tx.Signatures[0])
	assert.NoError(t, tx.VerifySignatures())
}

func TestReadOnlyWallet(t *testing.T) {
	w, err := newSolanaWallet(Config{}, &fakeRPC{height: 5}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, w.HasKey())

	_, err = w.Sign(swapTransactionFor(t, solana.NewWallet().PublicKey()))
	assert.Error(t, err)
	_, err = w.Balance(context.Background())
	assert.Error(t, err)

	height, err := w.BlockHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), height)
}

func TestSign_WrongPayer(t *testing.T) {
	w, _ := newTestWallet(t, &fakeRPC{})

	_, err := w.Sign(swapTransactionFor(t, solana.NewWallet().PublicKey()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paid by")
}

func TestSimulate(t *testing.T) {
	units := uint64(42_000)
	fake := &fakeRPC{simulation: &rpc.SimulateTransactionResult{UnitsConsumed: &units}}
	w, key := newTestWallet(t, fake)

	tx, err := w.Sign(swapTransactionFor(t, key.PublicKey()))
	require.NoError(t, err)

	res, err := w.Simulate(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, units, *res.UnitsConsumed)
	assert.Same(t, tx, fake.simulated)

	fake.simulation = &rpc.SimulateTransactionResult{
		Err:  map[string]interface{}{"InstructionError": []interface{}{2, "Custom: 6001"}},
		Logs: []string{"Program log: slippage tolerance exceeded"},
	}
	_, err = w.Simulate(context.Background(), tx)
	var simErr *SimulationError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, []string{"Program log: slippage tolerance exceeded"}, simErr.Logs)
}

func TestSend(t *testing.T) {
	fake := &fakeRPC{}
	w, key := newTestWallet(t, fake)
	w.config.SkipPreflight = true

	tx, err := w.Sign(swapTransactionFor(t, key.PublicKey()))
	require.NoError(t, err)

	sig, err := w.Send(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Signatures[0], sig)
	assert.True(t, fake.sendOpts.SkipPreflight)
	assert.Equal(t, rpc.CommitmentConfirmed, fake.sendOpts.PreflightCommitment)
}

func TestConfirm(t *testing.T) {
	fake := &fakeRPC{
		statuses: []*rpc.SignatureStatusesResult{
			{Slot: 1, ConfirmationStatus: rpc.ConfirmationStatusProcessed},
			{Slot: 1, ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		},
		height: 10,
	}
	w, _ := newTestWallet(t, fake)

	status, err := w.Confirm(context.Background(), solana.Signature{1}, 100, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, rpc.ConfirmationStatusConfirmed, status.ConfirmationStatus)
	assert.Equal(t, 2, fake.statusCall)
}

func TestConfirm_Failures(t *testing.T) {
	t.Run("failed on chain", func(t *testing.T) {
		fake := &fakeRPC{statuses: []*rpc.SignatureStatusesResult{
			{Err: map[string]interface{}{"InstructionError": []interface{}{0, "InvalidAccountData"}}},
		}}
		w, _ := newTestWallet(t, fake)

		_, err := w.Confirm(context.Background(), solana.Signature{1}, 100, time.Millisecond)
		assert.Error(t, err)
	})

	t.Run("blockhash expired", func(t *testing.T) {
		w, _ := newTestWallet(t, &fakeRPC{height: 101})

		_, err := w.Confirm(context.Background(), solana.Signature{1}, 100, time.Millisecond)
		assert.ErrorIs(t, err, ErrBlockHeightExceeded)
	})

	t.Run("context done", func(t *testing.T) {
		w, _ := newTestWallet(t, &fakeRPC{height: 1})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := w.Confirm(ctx, solana.Signature{1}, 100, 5*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestStatusAndInfo(t *testing.T) {
	blockTime := solana.UnixTimeSeconds(1_700_000_000)
	fake := &fakeRPC{
		txResult: &rpc.GetTransactionResult{
			Slot:      250_000_123,
			BlockTime: &blockTime,
			Meta:      &rpc.TransactionMeta{Fee: 5000},
		},
		balance: 2_000_000_000,
		height:  77,
	}
	w, _ := newTestWallet(t, fake)
	ctx := context.Background()

	_, err := w.Status(ctx, solana.Signature{1})
	assert.ErrorIs(t, err, ErrNotFound)

	info, err := w.GetTransactionInfo(ctx, solana.Signature{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(250_000_123), info.Slot)
	assert.Equal(t, uint64(5000), info.Fee)
	require.NotNil(t, info.BlockTime)
	assert.Equal(t, int64(1_700_000_000), info.BlockTime.Unix())

	balance, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), balance)

	height, err := w.BlockHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), height)

	fake.txResult = nil
	_, err = w.GetTransactionInfo(ctx, solana.Signature{1})
	assert.ErrorIs(t, err, ErrNotFound)
}
