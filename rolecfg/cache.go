// Package rolecfg maintains the role configuration (transaction limit and
// quorum) of a governance contract.
//
// The TransactionLimitUpdated and QuorumUpdated events are only used to
// discover which roles have ever been configured. Current values are always
// re-read from the roleConfigs accessor.
package rolecfg

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/internal/utils/safecast"
	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/types"
)

const component = "rolecfg"

// Events used to discover configured roles.
var discoveryEvents = []string{"TransactionLimitUpdated", "QuorumUpdated"}

// Cache holds the current configuration of every role the contract has ever
// configured.
type Cache struct {
	reader      sdk.ContractReader
	fetcher     *logfetch.Fetcher
	address     common.Address
	contractABI *abi.ABI
	fromBlock   uint64
	metrics     *metrics.Metrics

	mu      sync.RWMutex
	configs map[common.Hash]types.RoleConfig
}

// Option configures a Cache.
type Option func(*Cache)

// WithFromBlock sets the first block scanned for discovery events, usually
// the deployment block of the contract.
func WithFromBlock(n uint64) Option {
	return func(c *Cache) {
		c.fromBlock = n
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New returns an empty cache for the governance contract at address.
func New(
	reader sdk.ContractReader, fetcher *logfetch.Fetcher, address common.Address, contractABI *abi.ABI, opts ...Option,
) *Cache {
	c := &Cache{
		reader:      reader,
		fetcher:     fetcher,
		address:     address,
		contractABI: contractABI,
		configs:     map[common.Hash]types.RoleConfig{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Refresh rebuilds the cache from scratch and returns a copy of it. A role
// whose current configuration cannot be read is logged and left out.
func (c *Cache) Refresh(ctx context.Context) (map[common.Hash]types.RoleConfig, error) {
	return c.refresh(ctx, nil)
}

// RefreshAt is Refresh with role discovery limited to events up to toBlock.
func (c *Cache) RefreshAt(ctx context.Context, toBlock uint64) (map[common.Hash]types.RoleConfig, error) {
	return c.refresh(ctx, &toBlock)
}

func (c *Cache) refresh(ctx context.Context, toBlock *uint64) (map[common.Hash]types.RoleConfig, error) {
	discovered, err := c.discover(ctx, toBlock)
	if err != nil {
		return nil, err
	}

	configs := make(map[common.Hash]types.RoleConfig, len(discovered))
	for _, role := range discovered {
		cfg, err := c.read(ctx, role)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.metrics.PartialRead(component)
			sdk.SkipUnit(ctx, component, "role "+roles.Label(role), err)

			continue
		}
		configs[role] = cfg
	}

	c.mu.Lock()
	c.configs = configs
	c.mu.Unlock()

	return maps.Clone(configs), nil
}

// discover returns the identifiers of every role named by a discovery event
// up to toBlock (latest when nil), sorted by value.
func (c *Cache) discover(ctx context.Context, toBlock *uint64) ([]common.Hash, error) {
	seen := map[common.Hash]struct{}{}
	for _, name := range discoveryEvents {
		event, ok := c.contractABI.Events[name]
		if !ok {
			return nil, fmt.Errorf("event %s not found in contract ABI", name)
		}

		logs, err := c.fetcher.FetchLogs(ctx, c.address, event, c.fromBlock, toBlock)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			if len(l.Topics) < 2 { //nolint:mnd
				continue
			}
			seen[l.Topics[1]] = struct{}{}
		}
	}

	out := slices.Collect(maps.Keys(seen))
	slices.SortFunc(out, func(a, b common.Hash) int {
		return bytes.Compare(a[:], b[:])
	})

	return out, nil
}

func (c *Cache) read(ctx context.Context, role common.Hash) (types.RoleConfig, error) {
	out, err := c.reader.ReadContract(ctx, sdk.ContractCall{
		Address: c.address,
		ABI:     c.contractABI,
		Method:  "roleConfigs",
		Args:    []any{[32]byte(role)},
	})
	if err != nil {
		return types.RoleConfig{}, err
	}
	if len(out) != 2 { //nolint:mnd
		return types.RoleConfig{}, fmt.Errorf("roleConfigs returned %d values, want 2", len(out))
	}

	limit, ok := out[0].(*big.Int)
	if !ok {
		return types.RoleConfig{}, fmt.Errorf("unexpected transactionLimit type %T", out[0])
	}
	quorum, ok := out[1].(uint16)
	if !ok {
		return types.RoleConfig{}, fmt.Errorf("unexpected quorum type %T", out[1])
	}

	name, _ := roles.Name(role)

	return types.RoleConfig{
		Role:             role,
		Name:             name,
		TransactionLimit: limit,
		Quorum:           quorum,
	}, nil
}

// Configs returns a copy of the cached configuration.
func (c *Cache) Configs() map[common.Hash]types.RoleConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.configs)
}

// Get returns the cached configuration of role.
func (c *Cache) Get(role common.Hash) (types.RoleConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, ok := c.configs[role]

	return cfg, ok
}

// Quorum returns the cached quorum of role. A role that is unknown or has a
// zero quorum is reported as unresolved.
func (c *Cache) Quorum(role common.Hash) (uint64, bool) {
	cfg, ok := c.Get(role)
	if !ok || cfg.Quorum == 0 {
		return 0, false
	}

	return uint64(cfg.Quorum), true
}

// ValidateQuorum checks that quorum fits the contract's uint16 range and is
// at least 1.
func ValidateQuorum(quorum uint64) (uint16, error) {
	if quorum < types.MinQuorum || quorum > types.MaxQuorum {
		return 0, sdkerrors.NewInvalidQuorumError(quorum)
	}

	return safecast.Uint64ToUint16(quorum)
}

// ValidateLimit checks a transaction limit expressed in token base units.
func ValidateLimit(limit *big.Int) error {
	if limit == nil || limit.Sign() < 0 {
		return sdkerrors.NewValidationError("transactionLimit", limit, sdkerrors.ErrInvalidLimit)
	}

	return nil
}
