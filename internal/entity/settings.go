package entity

// Settings is the single-row company profile (id fixed to 1, upsert only).
type Settings struct {
	CompanyName           string
	CompanyAddress        string
	CompanyAddressEN      string
	BankName              string
	BankBranch            string
	AccountType           string
	AccountNumber         string
	AccountHolder         string
	AccountHolderEN       string
	TaxRegistrationNumber string
	BankCode              string
	SwiftCode             string
	BankNameEN            string
	BankBranchEN          string
}
