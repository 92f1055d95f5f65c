// Package contracts refreshes data/smart_contracts.json from the core
// repository: contract indexes and display names come from contract_def.h,
// procedures from each contract header's REGISTER_USER_PROCEDURE calls.
// The merge is non-destructive: manual edits survive, authoritative fields
// are refreshed.
package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/distbuilder/internal/jsonutil"
)

// Procedure is one registered user procedure of a contract.
type Procedure struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Contract describes one smart contract entry in the data file.
type Contract struct {
	Filename      string      `json:"filename"`
	Name          string      `json:"name"`
	Label         string      `json:"label"`
	GithubURL     string      `json:"github_url"`
	ContractIndex int         `json:"contract_index"`
	Address       string      `json:"address"`
	Procedures    []Procedure `json:"procedures"`
}

// identityAlphabet encodes contract indexes as base-16 identities (A..P).
const identityAlphabet = "ABCDEFGHIJKLMNOP"

// identityLength is the public-key portion of a contract identity.
const identityLength = 56

// AddressForIndex derives a contract's identity from its index: base-16
// little-endian digits over A..P, padded with A to 56 characters.
func AddressForIndex(idx int) string {
	if idx <= 0 {
		return strings.Repeat("A", identityLength)
	}
	var b strings.Builder
	n := idx
	for n > 0 && b.Len() < identityLength {
		b.WriteByte(identityAlphabet[n&0xF])
		n >>= 4
	}
	for b.Len() < identityLength {
		b.WriteByte('A')
	}
	return b.String()
}

// Updater fetches fresh contract metadata and merges it into the data file.
type Updater struct {
	client   *Client
	dataFile string
	repoBase string // for github_url links
}

// NewUpdater creates an Updater writing to dataFile.
func NewUpdater(client *Client, dataFile string) *Updater {
	return &Updater{
		client:   client,
		dataFile: dataFile,
		repoBase: "https://github.com/qubic/core/blob/main/src/contracts/",
	}
}

// Run performs the update. With dryRun the merged document is returned but
// not written. Individual header fetch failures degrade that contract to an
// empty procedure list rather than aborting the run.
func (u *Updater) Run(ctx context.Context, dryRun bool) ([]Contract, error) {
	defText, err := u.client.FetchContractDef(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch contract_def.h: %w", err)
	}
	stripped := stripComments(defText)

	headers := includedHeaders(stripped)
	indexes := contractIndexes(stripped, headers)
	names := descriptionNames(stripped)

	var fresh []Contract
	for _, basename := range headers {
		idx, ok := indexes[basename]
		if !ok {
			continue
		}

		var procs []Procedure
		headerText, err := u.client.FetchContractHeader(ctx, basename)
		if err != nil {
			slog.Warn("Could not fetch contract header, keeping empty procedure list",
				"contract", basename, "error", err)
		} else {
			procs = registeredProcedures(headerText)
		}

		stem := strings.TrimSuffix(basename, path.Ext(basename))
		name, ok := names[idx]
		if !ok {
			name = strings.ToUpper(stem)
		}

		fresh = append(fresh, Contract{
			Filename:      basename,
			Name:          name,
			Label:         LabelFromFilename(stem),
			GithubURL:     u.repoBase + basename,
			ContractIndex: idx,
			Address:       AddressForIndex(idx),
			Procedures:    procs,
		})
	}

	merged, err := u.mergeIntoFile(fresh, dryRun)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// mergeIntoFile loads the existing document (tolerating a missing or broken
// file), merges, and writes back unless dryRun. Top-level keys other than
// smart_contracts are preserved untouched.
func (u *Updater) mergeIntoFile(fresh []Contract, dryRun bool) ([]Contract, error) {
	doc := make(map[string]any)
	if data, err := os.ReadFile(u.dataFile); err == nil {
		if v, err := jsonutil.Parse(data); err == nil {
			if m, ok := v.(map[string]any); ok {
				doc = m
			}
		}
	}

	existing := decodeContracts(doc["smart_contracts"])
	merged := Merge(existing, fresh)
	doc["smart_contracts"] = encodeContracts(merged)

	if dryRun {
		return merged, nil
	}

	data, err := jsonutil.MarshalPretty(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal contracts document: %w", err)
	}
	if err := os.WriteFile(u.dataFile, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", u.dataFile, err)
	}
	return merged, nil
}

// Merge combines existing and fresh entries by filename. Fresh entries win
// for name, contract_index, and address; an existing label is kept; procedure
// lists are unioned by id.
func Merge(existing, fresh []Contract) []Contract {
	byFilename := make(map[string]int, len(existing))
	merged := append([]Contract(nil), existing...)
	for i, c := range merged {
		byFilename[c.Filename] = i
	}

	for _, f := range fresh {
		i, ok := byFilename[f.Filename]
		if !ok {
			byFilename[f.Filename] = len(merged)
			merged = append(merged, f)
			continue
		}

		ex := &merged[i]
		if f.Name != "" {
			ex.Name = f.Name
		}
		ex.ContractIndex = f.ContractIndex
		if f.Address != "" {
			ex.Address = f.Address
		}
		if ex.Label == "" {
			ex.Label = f.Label
		}
		if ex.GithubURL == "" {
			ex.GithubURL = f.GithubURL
		}

		have := make(map[int]bool, len(ex.Procedures))
		for _, p := range ex.Procedures {
			have[p.ID] = true
		}
		for _, p := range f.Procedures {
			if !have[p.ID] {
				ex.Procedures = append(ex.Procedures, p)
				have[p.ID] = true
			}
		}
		sort.Slice(ex.Procedures, func(a, b int) bool {
			return ex.Procedures[a].ID < ex.Procedures[b].ID
		})
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].ContractIndex < merged[b].ContractIndex
	})
	for i := range merged {
		// Serialize an empty procedure list as [], not null.
		if merged[i].Procedures == nil {
			merged[i].Procedures = []Procedure{}
		}
	}
	return merged
}
