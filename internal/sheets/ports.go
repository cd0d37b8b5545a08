package sheets

import (
	"context"

	"finchat/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter appends one transaction row to the export sheet.
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover removes a previously exported row by record ID.
	TransactionRemover interface {
		RemoveByID(ctx context.Context, id int64) error
	}
)
