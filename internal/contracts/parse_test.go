package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContractDef = `
// Contract registry.
#define QX_CONTRACT_INDEX 1
#define CONTRACT_INDEX QX_CONTRACT_INDEX
#include "contracts/Qx.h"

#define QUOTTERY_CONTRACT_INDEX 2
#include "contracts/Quottery.h"

#include "contracts/math_lib.h"
#include "contracts/TestExampleA.h"

constexpr struct ContractDescription contractDescriptions[] = {
	{"", 0, 0, 0},
	{"QX", 66, 10000, sizeof(QX)},
	{"QUOTTERY", 72, 10000, sizeof(QUOTTERY)},
};
`

func TestIncludedHeaders(t *testing.T) {
	headers := includedHeaders(stripComments(sampleContractDef))
	// math_lib.h and Test* files are not contracts.
	assert.Equal(t, []string{"Quottery.h", "Qx.h"}, headers)
}

func TestContractIndexes(t *testing.T) {
	stripped := stripComments(sampleContractDef)
	headers := includedHeaders(stripped)
	indexes := contractIndexes(stripped, headers)

	assert.Equal(t, map[string]int{"Qx.h": 1, "Quottery.h": 2}, indexes)
}

func TestDescriptionNames(t *testing.T) {
	names := descriptionNames(sampleContractDef)
	// Item zero is the reserved empty slot.
	assert.Equal(t, map[int]string{1: "QX", 2: "QUOTTERY"}, names)
}

func TestDescriptionNamesMissingArray(t *testing.T) {
	assert.Nil(t, descriptionNames("int x = 0;"))
}

func TestRegisteredProcedures(t *testing.T) {
	header := `
	/* registration block */
	REGISTER_USER_FUNCTIONS_AND_PROCEDURES() {
		REGISTER_USER_PROCEDURE(AddToAskOrder, 5);
		REGISTER_USER_PROCEDURE(&RemoveFromAskOrder, 6);
		REGISTER_USER_PROCEDURE(AddToBidOrder, 2);
		// REGISTER_USER_PROCEDURE(Commented, 9);
		REGISTER_USER_PROCEDURE(AddToAskOrder, 5); // duplicate id
	}
	`
	procs := registeredProcedures(header)
	require.Len(t, procs, 3)
	assert.Equal(t, Procedure{ID: 2, Name: "Add to Bid Order"}, procs[0])
	assert.Equal(t, Procedure{ID: 5, Name: "Add to Ask Order"}, procs[1])
	assert.Equal(t, Procedure{ID: 6, Name: "Remove from Ask Order"}, procs[2])
}

func TestStripComments(t *testing.T) {
	code := "a /* block\nspanning */ b // line\nc"
	assert.Equal(t, "a  b \nc", stripComments(code))
}
