package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		WorkspaceID   string `json:"workspace_id"`
		CreditBalance int    `json:"credit_balance"`
	} `json:"data"`
}

type ListTransactionsRequest struct {
	Type     string
	Page     int
	PageSize int
}

type CreditTransactionDTO struct {
	TransactionID string `json:"transaction_id"`
	Amount        int    `json:"amount"`
	Type          string `json:"type"`
	TypeLabel     string `json:"type_label"`
	Kind          string `json:"kind"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
}

type ListTransactionsResponse struct {
	Status     string                 `json:"status"`
	Data       []CreditTransactionDTO `json:"data"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int                    `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
}

type CreditPackageDTO struct {
	PackageID string  `json:"package_id"`
	Credits   int     `json:"credits"`
	PriceUSD  float64 `json:"price_usd"`
	Popular   bool    `json:"popular"`
}

type ListPackagesResponse struct {
	Status string             `json:"status"`
	Data   []CreditPackageDTO `json:"data"`
}
