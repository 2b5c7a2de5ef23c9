package entity

// BankAccount carries the payment destination printed on an invoice.
// Invariant: at most one account in the collection has IsDefault set; every
// write that marks an account default first clears the flag everywhere else.
type BankAccount struct {
	ID              int64
	Label           string
	BankName        string
	BankBranch      string
	BankNameEN      string
	BankBranchEN    string
	AccountType     string
	AccountNumber   string
	AccountHolder   string
	AccountHolderEN string
	BankCode        string
	SwiftCode       string
	IsDefault       bool
	SortOrder       int32
}

// BankAccountUpdate applies only the fields present in the input.
type BankAccountUpdate struct {
	Label           *string
	BankName        *string
	BankBranch      *string
	BankNameEN      *string
	BankBranchEN    *string
	AccountType     *string
	AccountNumber   *string
	AccountHolder   *string
	AccountHolderEN *string
	BankCode        *string
	SwiftCode       *string
	IsDefault       *bool
	SortOrder       *int32
}
