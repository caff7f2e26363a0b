package chaintx

import "fmt"

// ValidateGenesisValueTransfer enforces §4.3's one exception to
// "every ValueTransfer has at least one input": the genesis block may
// contain a ValueTransfer with zero inputs, provided every output value
// is strictly positive.
func ValidateGenesisValueTransfer(t *Transaction) error {
	if t.Kind != KindValueTransfer {
		return fmt.Errorf("chaintx: not a value transfer")
	}
	if len(t.Outputs) == 0 {
		return fmt.Errorf("chaintx: genesis value transfer has no outputs")
	}
	for i, o := range t.Outputs {
		if o.Value == 0 {
			return fmt.Errorf("chaintx: genesis output %d has zero value", i)
		}
	}
	return nil
}

// ValidateValueTransfer enforces the ordinary (non-genesis) shape: at
// least one input, every output value positive.
func ValidateValueTransfer(t *Transaction) error {
	if t.Kind != KindValueTransfer {
		return fmt.Errorf("chaintx: not a value transfer")
	}
	if len(t.Inputs) == 0 {
		return fmt.Errorf("chaintx: value transfer has no inputs outside genesis")
	}
	for i, o := range t.Outputs {
		if o.Value == 0 {
			return fmt.Errorf("chaintx: output %d has zero value", i)
		}
	}
	return nil
}
