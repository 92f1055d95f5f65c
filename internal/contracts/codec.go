package contracts

import (
	"encoding/json"
)

// decodeContracts converts the generic smart_contracts value from a parsed
// document into typed entries. Anything unconvertible is dropped.
func decodeContracts(v any) []Contract {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var contracts []Contract
	if err := json.Unmarshal(data, &contracts); err != nil {
		return nil
	}
	return contracts
}

// encodeContracts converts typed entries back to the generic form used for
// document serialization.
func encodeContracts(contracts []Contract) any {
	data, err := json.Marshal(contracts)
	if err != nil {
		return contracts
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return contracts
	}
	return v
}
