package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelFromFilename(t *testing.T) {
	cases := map[string]string{
		"Qx":                    "Qx",
		"QUTIL":                 "QUtil",
		"QVAULT":                "QVault",
		"Qswap":                 "QSwap",
		"Qbay":                  "QBay",
		"GeneralQuorumProposal": "General Quorum Proposal",
		"MyLastMatch":           "My Last Match",
		"":                      "",
		"Q":                     "Q",
	}
	for stem, want := range cases {
		assert.Equal(t, want, LabelFromFilename(stem), "stem %q", stem)
	}
}

func TestPrettyPhrase(t *testing.T) {
	cases := map[string]string{
		"AddToAskOrder":        "Add to Ask Order",
		"TransferShareManagementRights": "Transfer Share Management Rights",
		"snake_case_name":      "Snake Case Name",
		"IssueAsset":           "Issue Asset",
		"Vote2":                "Vote 2",
	}
	for in, want := range cases {
		assert.Equal(t, want, PrettyPhrase(in), "identifier %q", in)
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"General", "Quorum", "Proposal"}, splitWords("GeneralQuorumProposal"))
	assert.Equal(t, []string{"snake", "case"}, splitWords("snake_case"))
	assert.Equal(t, []string{"Vote", "2"}, splitWords("Vote2"))
}
