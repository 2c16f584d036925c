package govsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/govkit/govsync"
	"github.com/govkit/govsync/config"
	"github.com/govkit/govsync/dispatch"
	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/sdk/evm"
	"github.com/govkit/govsync/sdk/evm/bindings"
	"github.com/govkit/govsync/types"
)

// app holds what a command needs to talk to one target.
type app struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	sync   *govsync.Synchronizer
	closer func()
}

func (a *app) Close() {
	a.sync.Close()
	_ = a.logger.Sync()
	a.closer()
}

func (a *app) dispatcher() *dispatch.Dispatcher {
	return a.sync.Dispatcher()
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

// setup loads the configuration, dials the node and wires the synchronizer
// of the selected target. A signer is attached when one is configured.
func setup(ctx context.Context, flags *globalFlags, m *metrics.Metrics) (context.Context, *app, error) {
	cfg, err := config.Load(flags.configPath, flags.envFile)
	if err != nil {
		return ctx, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return ctx, nil, err
	}
	ctx = sdk.WithLogger(ctx, logger)

	target, err := resolveTarget(cfg, flags.target)
	if err != nil {
		return ctx, nil, err
	}

	backend, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return ctx, nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	clientOpts := []evm.ClientOption{
		evm.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		evm.WithReceiptPollInterval(cfg.ReceiptPollInterval),
	}
	if cfg.PrivateKey != "" {
		auth, err := newTransactor(cfg.PrivateKey, cfg.ChainID)
		if err != nil {
			backend.Close()
			return ctx, nil, err
		}
		clientOpts = append(clientOpts, evm.WithTransactor(auth))
	}
	client := evm.NewClient(backend, clientOpts...)

	s, err := govsync.New(client, cfg.ChainID, target,
		govsync.WithMetrics(m),
		govsync.WithMaxCaps(cfg.MaxVestingCaps),
		govsync.WithLogFetchOptions(
			logfetch.WithChunkSize(cfg.LogChunkSize),
			logfetch.WithChunkDelay(cfg.ChunkDelay),
		),
	)
	if err != nil {
		backend.Close()
		return ctx, nil, err
	}

	return ctx, &app{cfg: cfg, logger: logger, sync: s, closer: backend.Close}, nil
}

func newTransactor(hexKey string, chainID uint64) (*bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainID))
}

func resolveTarget(cfg *config.Config, name string) (govsync.TargetConfig, error) {
	kind, err := types.ParseTarget(name)
	if err != nil {
		return govsync.TargetConfig{}, err
	}
	tc, err := cfg.Target(name)
	if err != nil {
		return govsync.TargetConfig{}, err
	}
	role, err := tc.Role()
	if err != nil {
		return govsync.TargetConfig{}, err
	}

	var parsed *abi.ABI
	if tc.ABIPath != "" {
		raw, rerr := os.ReadFile(tc.ABIPath)
		if rerr != nil {
			return govsync.TargetConfig{}, fmt.Errorf("read ABI %s: %w", tc.ABIPath, rerr)
		}
		parsed, err = bindings.WithOverride(raw)
	} else {
		parsed, err = bindings.ABIFor(kind)
	}
	if err != nil {
		return govsync.TargetConfig{}, err
	}

	return govsync.TargetConfig{
		Target:       kind,
		Address:      tc.ContractAddress(),
		ABI:          parsed,
		FromBlock:    tc.FromBlock,
		ApproverRole: role,
	}, nil
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(ctx context.Context, flags *globalFlags, fn func(ctx context.Context, a *app) error) error {
	ctx, a, err := setup(ctx, flags, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func printResult(w io.Writer, res types.TransactionResult) error {
	return printJSON(w, res)
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, sdkerrors.NewValidationError(field, s, sdkerrors.ErrInvalidAddress)
	}

	return common.HexToAddress(s), nil
}

func parseHash(field, s string) (common.Hash, error) {
	b, err := hexDecode32(s)
	if err != nil {
		return common.Hash{}, sdkerrors.NewValidationError(field, s, sdkerrors.ErrInvalidArgument)
	}

	return b, nil
}

func hexDecode32(s string) (common.Hash, error) {
	b, err := hexutil.Decode("0x" + strings.TrimPrefix(s, "0x"))
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("want %d bytes, got %d", common.HashLength, len(b))
	}

	return common.BytesToHash(b), nil
}

func parseAmount(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, sdkerrors.NewValidationError(field, s, sdkerrors.ErrInvalidAmount)
	}

	return v, nil
}
