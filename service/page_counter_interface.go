package service

import (
	"context"

	"print-order/models"
)

// PageCounter defines the contract for determining how many pages a file has.
// Calls may take arbitrarily long; callers apply results through a PageCountToken.
type PageCounter interface {
	GetPageCount(ctx context.Context, file models.UploadedFile) (int, error)
}
