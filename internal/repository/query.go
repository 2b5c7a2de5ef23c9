package repository

const (
	selectInvoice = `SELECT
		id,
		client_id,
		invoice_number,
		invoice_date,
		due_date,
		currency,
		status,
		notes,
		notes_en,
		total_jpy,
		bank_account_id,
		created_at
	FROM invoices`

	selectItems = `SELECT
		id,
		invoice_id,
		description,
		description_en,
		unit_cost,
		qty,
		tax_rate,
		unit,
		currency,
		exchange_rate,
		amount_jpy,
		sort_order
	FROM invoice_items`

	selectExchangeRates = `SELECT
		id,
		invoice_id,
		currency,
		rate,
		rate_date
	FROM exchange_rates`

	selectBankAccount = `SELECT
		id,
		label,
		bank_name,
		bank_branch,
		bank_name_en,
		bank_branch_en,
		account_type,
		account_number,
		account_holder,
		account_holder_en,
		bank_code,
		swift_code,
		is_default,
		sort_order
	FROM bank_accounts`

	selectClient = `SELECT
		id,
		name,
		name_en,
		address,
		address_en,
		contact_name,
		contact_email,
		invoice_prefix,
		currency,
		tax_rate,
		created_at
	FROM clients`
)
