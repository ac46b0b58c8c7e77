package rcb

// =============================================================================
// ACCOUNT SCHEMA - Configurable sub-account breakdown per period
// =============================================================================

// AccountKind selects one of the three bounded sub-account lists.
type AccountKind string

const (
	KindMOOE          AccountKind = "mooe"
	KindCapitalOutlay AccountKind = "co"
	KindWithholding   AccountKind = "withholding"
)

func (k AccountKind) Valid() bool {
	switch k {
	case KindMOOE, KindCapitalOutlay, KindWithholding:
		return true
	}
	return false
}

// MaxAccountsPerKind caps each sub-account list. The generated document has
// three columns per expenditure block; a fourth account has nowhere to go.
const MaxAccountsPerKind = 3

// SyntheticWithholding is the aggregation bucket used when a period has no
// withholding types configured.
const SyntheticWithholding = "Withholding"

// AccountSchema holds the ordered sub-account names for one period. Values
// in historical entries stay keyed by the name in force when the entry was
// created; renaming or removing a name orphans those values (the totals
// engine then counts them as zero). Keying by a stable generated identifier
// instead is a pending product decision.
type AccountSchema struct {
	MOOEAccounts     []string `json:"mooeAccounts"`
	COAccounts       []string `json:"coAccounts"`
	WithholdingTypes []string `json:"withholdingTypes"`
}

// DefaultSchema is the schema lazily materialized on first access to a
// never-seen period key.
func DefaultSchema() AccountSchema {
	return AccountSchema{
		MOOEAccounts:     []string{"Office Supplies", "Travelling Expenses"},
		COAccounts:       []string{"Office Equipment"},
		WithholdingTypes: []string{"Withholding Tax on Compensation", "Expanded Withholding Tax"},
	}
}

func (s AccountSchema) clone() AccountSchema {
	return AccountSchema{
		MOOEAccounts:     append([]string(nil), s.MOOEAccounts...),
		COAccounts:       append([]string(nil), s.COAccounts...),
		WithholdingTypes: append([]string(nil), s.WithholdingTypes...),
	}
}

// Accounts returns the list for the given kind.
func (s AccountSchema) Accounts(kind AccountKind) []string {
	switch kind {
	case KindMOOE:
		return s.MOOEAccounts
	case KindCapitalOutlay:
		return s.COAccounts
	case KindWithholding:
		return s.WithholdingTypes
	}
	return nil
}

func (s *AccountSchema) accountsRef(kind AccountKind) *[]string {
	switch kind {
	case KindMOOE:
		return &s.MOOEAccounts
	case KindCapitalOutlay:
		return &s.COAccounts
	default:
		return &s.WithholdingTypes
	}
}

// Add appends a sub-account name. Once the list holds MaxAccountsPerKind
// entries this is a silent no-op; callers check length before offering the
// add action. Returns whether the name was added.
func (s *AccountSchema) Add(kind AccountKind, name string) bool {
	list := s.accountsRef(kind)
	if len(*list) >= MaxAccountsPerKind {
		return false
	}
	*list = append(*list, name)
	return true
}

// Remove deletes the name at index, preserving order. Out-of-range indexes
// are ignored. A list may shrink to empty.
func (s *AccountSchema) Remove(kind AccountKind, index int) bool {
	list := s.accountsRef(kind)
	if index < 0 || index >= len(*list) {
		return false
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return true
}

// Rename changes the label at index. Historical entries keep their values
// under the old name; only future entries pick up the new one.
func (s *AccountSchema) Rename(kind AccountKind, index int, newName string) bool {
	list := s.accountsRef(kind)
	if index < 0 || index >= len(*list) {
		return false
	}
	(*list)[index] = newName
	return true
}

// WithholdingBuckets returns the withholding type names used for
// aggregation, falling back to the single synthetic bucket when the period
// has none configured.
func (s AccountSchema) WithholdingBuckets() []string {
	if len(s.WithholdingTypes) == 0 {
		return []string{SyntheticWithholding}
	}
	return s.WithholdingTypes
}
