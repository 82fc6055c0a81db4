package anchor

// OraclePrice is the oracle's answer to `{"price":{"base":...,"quote":"uusd"}}`.
type OraclePrice struct {
	Rate             string `json:"rate"`
	LastUpdatedBase  int64  `json:"last_updated_base"`
	LastUpdatedQuote int64  `json:"last_updated_quote"`
}

// MarketBorrowerInfo is the market's answer to `{"borrower_info":{...}}`.
type MarketBorrowerInfo struct {
	Borrower       string `json:"borrower"`
	InterestIndex  string `json:"interest_index"`
	RewardIndex    string `json:"reward_index"`
	LoanAmount     string `json:"loan_amount"`
	PendingRewards string `json:"pending_rewards"`
}

// CustodyBorrower is the bLuna custody's answer to `{"borrower":{"address":...}}`.
type CustodyBorrower struct {
	Borrower  string `json:"borrower"`
	Balance   string `json:"balance"`
	Spendable string `json:"spendable"`
}

// BorrowMarket holds the market wide records used to render borrow receipts.
type BorrowMarket struct {
	OraclePrice OraclePrice
}

// BorrowBorrower holds the borrower specific records used to render borrow receipts.
type BorrowBorrower struct {
	MarketBorrowerInfo MarketBorrowerInfo
	CustodyBorrower    CustodyBorrower
}
