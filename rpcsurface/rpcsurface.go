// Package rpcsurface names the JSON-RPC methods §6.4 calls out
// as "surface names only; shapes are out of scope". Nothing in the
// consensus core depends on this package; it exists purely so a future
// RPC server (not part of this module, per §1) has a single,
// typo-proof source of method names to implement against.
package rpcsurface

// Method is a JSON-RPC method name.
type Method string

const (
	Inventory        Method = "inventory"
	GetBlockChain    Method = "getBlockChain"
	GetBlock         Method = "getBlock"
	SendValue        Method = "sendValue"
	SendRequest      Method = "sendRequest"
	Status           Method = "status"
	GetPublicKey     Method = "getPublicKey"
	Sign             Method = "sign"
	CreateVRF        Method = "createVRF"
	DataRequestReport Method = "dataRequestReport"
	GetBalance       Method = "getBalance"
)

// NewBlocksSubscription is the pub/sub topic name §6.4 names.
const NewBlocksSubscription = "newBlocks"

// Methods lists every method in a stable order, useful for a server
// that needs to register handlers or print its own surface.
var Methods = []Method{
	Inventory, GetBlockChain, GetBlock, SendValue, SendRequest,
	Status, GetPublicKey, Sign, CreateVRF, DataRequestReport, GetBalance,
}
