package chaintest

import "github.com/ethereum/go-ethereum/common"

var (
	// ChainID is the chain id of the local development node.
	ChainID uint64 = 1337

	// ContractAddress is the first contract deployed by the default anvil account.
	ContractAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	// Operator is the default anvil account.
	Operator = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	// Approver is the second anvil account.
	Approver = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	// Implementation is a placeholder upgrade target.
	Implementation = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)
