package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

func TestRecoverCommissionInvoicesCommandHandler_Handle(t *testing.T) {
	t.Run("unbilled distributed order gets its invoice", func(t *testing.T) {
		f := newFixture(t, order.Distributed)
		row := f.addParticipant(t, 110)
		f.addCollectedPayment(t, row.ID(), 66990)

		issuer := &MockInvoiceIssuer{}
		issuer.On("IssueCommissionInvoice", mock.Anything, f.order.ID(), mock.Anything, kernel.Currency("EUR")).
			Return("inv_7", nil)

		h := commands.NewRecoverCommissionInvoicesCommandHandler(memUoWFactory{f.store}, issuer)
		require.NoError(t, h.Handle(t.Context(), commands.NewRecoverCommissionInvoicesCommand()))

		assert.Equal(t, "inv_7", f.order.CommissionInvoiceID())
		assert.False(t, f.order.NeedsCommissionInvoice())
		issuer.AssertExpectations(t)
	})

	t.Run("billed orders are left alone", func(t *testing.T) {
		f := newFixture(t, order.Distributed)
		require.NoError(t, f.order.RecordCommissionInvoice("inv_1", f.order.UpdatedAt()))

		issuer := &MockInvoiceIssuer{}

		h := commands.NewRecoverCommissionInvoicesCommandHandler(memUoWFactory{f.store}, issuer)
		require.NoError(t, h.Handle(t.Context(), commands.NewRecoverCommissionInvoicesCommand()))

		issuer.AssertNotCalled(t, "IssueCommissionInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("issuer failure leaves the order flagged for the next sweep", func(t *testing.T) {
		f := newFixture(t, order.Distributed)

		issuer := &MockInvoiceIssuer{}
		issuer.On("IssueCommissionInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errs.NewExternalProviderError("billing", nil))

		h := commands.NewRecoverCommissionInvoicesCommandHandler(memUoWFactory{f.store}, issuer)
		err := h.Handle(t.Context(), commands.NewRecoverCommissionInvoicesCommand())

		assert.ErrorIs(t, err, errs.ErrExternalProvider)
		assert.True(t, f.order.NeedsCommissionInvoice())
	})
}
