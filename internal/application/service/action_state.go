package service

import (
	"context"
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

// User-facing outcomes of the mutation actions.
const (
	MsgCreateInvoiceFailed  = "Database Error: Failed to Create Invoice."
	MsgUpdateInvoiceFailed  = "Database Error: Failed to Update Invoice."
	MsgDeleteInvoiceFailed  = "Database Error: Failed to Delete Invoice."
	MsgInvoiceDeleted       = "Deleted Invoice."
	MsgCreateCustomerFailed = "Database Error: Failed to Create Customer."
	MsgUpdateCustomerFailed = "Database Error: Failed to Update Customer."
	MsgDeleteCustomerFailed = "Database Error: Failed to Delete Customer."
	MsgCustomerDeleted      = "Deleted Customer."
	MsgInvalidCredentials   = "Invalid credentials."
	MsgSomethingWentWrong   = "Something went wrong."
)

// ActionState is what a form action hands back to the page that submitted it.
// A non-empty Redirect means the action succeeded.
type ActionState struct {
	Message  string
	Errors   map[string][]string
	Redirect string
}

func (s *ActionState) Succeeded() bool {
	return s != nil && s.Redirect != ""
}

func failed(message string) *ActionState {
	return &ActionState{Message: message}
}

func redirectTo(path string) *ActionState {
	return &ActionState{Redirect: path}
}

// revalidate drops cached listings; failures only cost freshness so they are logged.
func revalidate(ctx context.Context, revalidator domain.PathRevalidator, logger *zap.Logger, paths ...string) {
	if revalidator == nil {
		return
	}
	for _, path := range paths {
		if err := revalidator.Revalidate(ctx, path); err != nil {
			logger.Warn("failed to revalidate path",
				zap.Error(err),
				zap.String("path", path),
			)
		}
	}
}

// publishTimeout bounds the orphan event publish so a slow broker cannot hold the request.
const publishTimeout = 5 * time.Second
