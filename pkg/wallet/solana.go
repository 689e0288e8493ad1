package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"jup-ag/pkg/types"
)

// ErrNotFound is returned when the cluster has no record of a signature.
var ErrNotFound = errors.New("transaction not found")

// ErrBlockHeightExceeded is returned by Confirm when the transaction's
// blockhash expired before it was confirmed.
var ErrBlockHeightExceeded = errors.New("block height exceeded before confirmation")

// RPC is the subset of the solana-go RPC client the wallet uses.
type RPC interface {
	SimulateTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
}

// Config describes the keypair and cluster a wallet uses.
type Config struct {
	RPCURL        string
	Keypair       string // path to a solana-keygen JSON file, or a base58 private key
	Commitment    string
	SkipPreflight bool
}

// SolanaWallet signs swap transactions and submits them to a cluster.
type SolanaWallet struct {
	config     Config
	client     RPC
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
	commitment rpc.CommitmentType
	log        zerolog.Logger
}

// NewSolanaWallet connects to cfg.RPCURL and loads cfg.Keypair.
func NewSolanaWallet(cfg Config, log zerolog.Logger) (*SolanaWallet, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not configured for Solana")
	}
	return newSolanaWallet(cfg, rpc.New(cfg.RPCURL), log)
}

func newSolanaWallet(cfg Config, client RPC, log zerolog.Logger) (*SolanaWallet, error) {
	commitment, err := ParseCommitment(cfg.Commitment)
	if err != nil {
		return nil, err
	}

	w := &SolanaWallet{
		config:     cfg,
		client:     client,
		commitment: commitment,
		log:        log,
	}

	// Without a keypair the wallet can still query the cluster.
	if cfg.Keypair != "" {
		w.privateKey, err = LoadPrivateKey(cfg.Keypair)
		if err != nil {
			return nil, err
		}
		w.publicKey = w.privateKey.PublicKey()
	}
	return w, nil
}

// LoadPrivateKey reads a solana-keygen JSON file, or decodes keypair as a
// base58 private key when no such file exists.
func LoadPrivateKey(keypair string) (solana.PrivateKey, error) {
	var key solana.PrivateKey
	if _, err := os.Stat(keypair); err == nil {
		key, err = solana.PrivateKeyFromSolanaKeygenFile(keypair)
		if err != nil {
			return nil, fmt.Errorf("invalid keypair file %s: %w", keypair, err)
		}
	} else {
		key, err = solana.PrivateKeyFromBase58(strings.TrimSpace(keypair))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: not a keypair file or base58 key")
		}
	}

	if err := checkKeypair(key); err != nil {
		return nil, err
	}
	return key, nil
}

// checkKeypair requires a 64 byte seed plus public key whose public half is
// the one the seed derives.
func checkKeypair(key solana.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return fmt.Errorf("invalid private key length %d", len(key))
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return fmt.Errorf("invalid private key: public key does not match seed")
	}
	return nil
}

// ParseCommitment maps a commitment name to its RPC value. Empty means
// confirmed.
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "finalized":
		return rpc.CommitmentFinalized, nil
	case "confirmed", "":
		return rpc.CommitmentConfirmed, nil
	case "processed":
		return rpc.CommitmentProcessed, nil
	default:
		return "", fmt.Errorf("unknown commitment %q (expected processed, confirmed or finalized)", s)
	}
}

// PublicKey returns the wallet address.
func (w *SolanaWallet) PublicKey() solana.PublicKey { return w.publicKey }

// HasKey reports whether a keypair was loaded.
func (w *SolanaWallet) HasKey() bool { return len(w.privateKey) > 0 }

// Sign parses the swap transaction and signs it as fee payer. The server
// builds the transaction for a specific user, so a transaction paid by
// another key is rejected.
func (w *SolanaWallet) Sign(swapTx *types.SwapTransaction) (*solana.Transaction, error) {
	if !w.HasKey() {
		return nil, fmt.Errorf("no keypair loaded")
	}

	tx, err := swapTx.Transaction()
	if err != nil {
		return nil, fmt.Errorf("failed to parse swap transaction: %w", err)
	}
	if len(tx.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("swap transaction has no accounts")
	}
	if payer := tx.Message.AccountKeys[0]; !payer.Equals(w.publicKey) {
		return nil, fmt.Errorf("swap transaction is paid by %s, wallet is %s", payer, w.publicKey)
	}

	// The server leaves empty signature slots.
	tx.Signatures = nil
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.publicKey) {
			return &w.privateKey
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

// SimulationError carries the program logs of a failed simulation.
type SimulationError struct {
	Err  interface{}
	Logs []string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Err)
}

// Simulate runs tx against the cluster without submitting it.
func (w *SolanaWallet) Simulate(ctx context.Context, tx *solana.Transaction) (*rpc.SimulateTransactionResult, error) {
	resp, err := w.client.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:  true,
		Commitment: w.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to simulate transaction: %w", err)
	}
	if resp == nil || resp.Value == nil {
		return nil, fmt.Errorf("empty simulation result")
	}
	if resp.Value.Err != nil {
		return resp.Value, &SimulationError{Err: resp.Value.Err, Logs: resp.Value.Logs}
	}
	return resp.Value, nil
}

// Send submits a signed transaction and returns its signature.
func (w *SolanaWallet) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	opts := rpc.TransactionOpts{
		SkipPreflight:       w.config.SkipPreflight,
		PreflightCommitment: w.commitment,
	}

	sig, err := w.client.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	w.log.Debug().Str("signature", sig.String()).Msg("transaction sent")
	return sig, nil
}

// Status returns the cluster's view of sig.
func (w *SolanaWallet) Status(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	out, err := w.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return nil, ErrNotFound
	}
	return out.Value[0], nil
}

// Confirm polls until sig reaches the wallet's commitment, fails on chain,
// or the block height passes lastValidBlockHeight.
func (w *SolanaWallet) Confirm(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64, interval time.Duration) (*rpc.SignatureStatusesResult, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := w.Status(ctx, sig)
		switch {
		case err == nil && status.Err != nil:
			return status, fmt.Errorf("transaction failed: %v", status.Err)
		case err == nil && reached(status.ConfirmationStatus, w.commitment):
			return status, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, err
		}

		if lastValidBlockHeight > 0 {
			height, err := w.BlockHeight(ctx)
			if err != nil {
				return nil, err
			}
			if height > lastValidBlockHeight {
				return nil, ErrBlockHeightExceeded
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func reached(got rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := map[string]int{
		string(rpc.ConfirmationStatusProcessed): 1,
		string(rpc.ConfirmationStatusConfirmed): 2,
		string(rpc.ConfirmationStatusFinalized): 3,
	}
	return got != "" && rank[string(got)] >= rank[string(want)]
}

// TransactionInfo summarizes a landed transaction.
type TransactionInfo struct {
	Signature solana.Signature
	Slot      uint64
	Fee       uint64
	Err       interface{}
	BlockTime *time.Time
}

// GetTransactionInfo retrieves information about a transaction
func (w *SolanaWallet) GetTransactionInfo(ctx context.Context, sig solana.Signature) (*TransactionInfo, error) {
	maxVersion := uint64(0)
	txInfo, err := w.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if txInfo == nil {
		return nil, ErrNotFound
	}

	info := &TransactionInfo{Signature: sig, Slot: txInfo.Slot}
	if txInfo.Meta != nil {
		info.Fee = txInfo.Meta.Fee
		info.Err = txInfo.Meta.Err
	}
	if txInfo.BlockTime != nil {
		t := txInfo.BlockTime.Time()
		info.BlockTime = &t
	}
	return info, nil
}

// Balance returns the wallet's SOL balance in lamports.
func (w *SolanaWallet) Balance(ctx context.Context) (uint64, error) {
	if !w.HasKey() {
		return 0, fmt.Errorf("no keypair loaded")
	}
	balance, err := w.client.GetBalance(ctx, w.publicKey, w.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Value, nil
}

// BlockHeight returns the cluster's current block height.
func (w *SolanaWallet) BlockHeight(ctx context.Context) (uint64, error) {
	height, err := w.client.GetBlockHeight(ctx, w.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get block height: %w", err)
	}
	return height, nil
}
