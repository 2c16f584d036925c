// Package revert translates the opaque errors of a failed dry run into typed
// errors with readable messages.
//
// A Registry maps custom error names to a sentinel kind and a formatter.
// Decoding looks for, in order: an ABI encoded custom error selector, a
// custom error name in the message text, a plain string revert reason.
// Anything else falls through to ErrUnrecognized with the raw message.
package revert

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	sdkerrors "github.com/govkit/govsync/sdk/errors"
)

// Entry describes a known custom error.
type Entry struct {
	Name string
	Kind error
	// Format renders the decoded arguments. args may be empty when the
	// error was matched by name without parameters.
	Format func(args []any) string
}

// Registry decodes dry run failures into typed revert errors.
type Registry struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	bySelector map[[selectorSize]byte]abi.Error
	namePat    *regexp.Regexp
}

// NewRegistry returns a registry holding the default entries, with the
// custom errors of the given ABIs indexed by selector.
func NewRegistry(abis ...*abi.ABI) *Registry {
	r := &Registry{
		entries:    map[string]Entry{},
		bySelector: map[[selectorSize]byte]abi.Error{},
	}
	for _, e := range defaultEntries() {
		r.entries[e.Name] = e
	}
	for _, a := range abis {
		r.Index(a)
	}
	r.compile()

	return r
}

// Register adds or replaces an entry.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.Name] = e
	r.compile()
}

// Index adds the custom errors of a contract ABI to the selector index.
func (r *Registry) Index(contractABI *abi.ABI) {
	if contractABI == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range contractABI.Errors {
		var key [selectorSize]byte
		copy(key[:], e.ID[:selectorSize])
		r.bySelector[key] = e
	}
}

func (r *Registry) compile() {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, regexp.QuoteMeta(name))
	}
	// Longest first so that a name is never shadowed by one of its prefixes.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}

		return names[i] < names[j]
	})
	r.namePat = regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\b(?:\(([^)]*)\))?`)
}

// Decode converts the simulation failure of method into a
// *sdkerrors.SimulationRevertError. It never returns nil for a non-nil err.
func (r *Registry) Decode(method string, err error) *sdkerrors.SimulationRevertError {
	if err == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &sdkerrors.SimulationRevertError{Method: method, Err: err}
	msg := err.Error()

	if data := extractData(err); len(data) >= selectorSize {
		out.RawData = data
		if r.decodeSelector(out, data) {
			return out
		}
		if reason, uerr := abi.UnpackRevert(data); uerr == nil {
			out.Reason = "Error"
			out.Message = reason
			out.Kind = ErrReverted

			return out
		}
	}

	if m := r.namePat.FindStringSubmatch(msg); m != nil {
		r.fill(out, m[1], parseArgs(m[2]))

		return out
	}

	if reason := extractReason(msg); reason != "" {
		out.Reason = "Error"
		out.Message = reason
		out.Kind = ErrReverted

		return out
	}

	out.Message = msg
	out.Kind = ErrUnrecognized

	return out
}

func (r *Registry) decodeSelector(out *sdkerrors.SimulationRevertError, data []byte) bool {
	var key [selectorSize]byte
	copy(key[:], data[:selectorSize])

	abiErr, ok := r.bySelector[key]
	if !ok {
		return false
	}

	args, err := abiErr.Inputs.Unpack(data[selectorSize:])
	if err != nil {
		return false
	}
	r.fill(out, abiErr.Name, args)

	return true
}

func (r *Registry) fill(out *sdkerrors.SimulationRevertError, name string, args []any) {
	out.Reason = name
	out.Args = args

	entry, ok := r.entries[name]
	if !ok {
		out.Kind = ErrUnrecognized
		out.Message = formatGeneric(name, args)

		return
	}

	out.Kind = entry.Kind
	if entry.Format != nil {
		out.Message = entry.Format(args)
	} else {
		out.Message = formatGeneric(name, args)
	}
}

// formatGeneric formats a decoded error as "ErrorName(arg1, arg2, ...)".
func formatGeneric(name string, args []any) string {
	if len(args) == 0 {
		return name
	}

	parts := make([]string, 0, len(args))
	for _, v := range args {
		switch t := v.(type) {
		case [32]byte:
			parts = append(parts, common.Hash(t).Hex())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}

	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
