package commands_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/core/domain/model/payment"
	"groupbuy/internal/core/ports"
	"groupbuy/internal/pkg/errs"
)

// The saga handlers run several transactions against the same store, so the
// repository doubles are stateful in-memory maps rather than expectation
// mocks. External ports stay testify mocks.

type memOrderRepo struct {
	byID map[kernel.UUID]*order.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byID: map[kernel.UUID]*order.Order{}}
}

func (r *memOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.byID[aggregate.ID()] = aggregate
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	r.byID[aggregate.ID()] = aggregate
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if aggregate, ok := r.byID[id]; ok {
		return aggregate, nil
	}
	return nil, errs.NewObjectNotFoundError("orderId", id.String())
}

func (r *memOrderRepo) GetByCode(_ context.Context, code string) (*order.Order, error) {
	for _, aggregate := range r.byID {
		if aggregate.Code() == code {
			return aggregate, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderCode", code)
}

func (r *memOrderRepo) GetAllNeedingCommissionInvoice(_ context.Context) ([]*order.Order, error) {
	var result []*order.Order
	for _, aggregate := range r.byID {
		if aggregate.NeedsCommissionInvoice() {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

type memParticipantRepo struct {
	byID map[kernel.UUID]*participant.Participant
}

func newMemParticipantRepo() *memParticipantRepo {
	return &memParticipantRepo{byID: map[kernel.UUID]*participant.Participant{}}
}

func (r *memParticipantRepo) Add(_ context.Context, aggregate *participant.Participant) error {
	r.byID[aggregate.ID()] = aggregate
	return nil
}

func (r *memParticipantRepo) Update(_ context.Context, aggregate *participant.Participant) error {
	r.byID[aggregate.ID()] = aggregate
	return nil
}

func (r *memParticipantRepo) Delete(_ context.Context, id kernel.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *memParticipantRepo) Get(_ context.Context, id kernel.UUID) (*participant.Participant, error) {
	if aggregate, ok := r.byID[id]; ok {
		return aggregate, nil
	}
	return nil, errs.NewObjectNotFoundError("participantId", id.String())
}

func (r *memParticipantRepo) GetByOrderAndProfile(_ context.Context, orderID, profileID kernel.UUID) (*participant.Participant, error) {
	for _, aggregate := range r.byID {
		if aggregate.OrderID().IsEqual(orderID) && aggregate.ProfileID().IsEqual(profileID) {
			return aggregate, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("participant", profileID.String())
}

func (r *memParticipantRepo) GetAllByOrder(_ context.Context, orderID kernel.UUID) ([]*participant.Participant, error) {
	var result []*participant.Participant
	for _, aggregate := range r.byID {
		if aggregate.OrderID().IsEqual(orderID) {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

type memPaymentRepo struct {
	byID map[kernel.UUID]*payment.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{byID: map[kernel.UUID]*payment.Payment{}}
}

func (r *memPaymentRepo) Add(_ context.Context, aggregate *payment.Payment) error {
	r.byID[aggregate.ID()] = aggregate
	return nil
}

func (r *memPaymentRepo) Update(_ context.Context, aggregate *payment.Payment) error {
	r.byID[aggregate.ID()] = aggregate
	return nil
}

func (r *memPaymentRepo) Get(_ context.Context, id kernel.UUID) (*payment.Payment, error) {
	if aggregate, ok := r.byID[id]; ok {
		return aggregate, nil
	}
	return nil, errs.NewObjectNotFoundError("paymentId", id.String())
}

func (r *memPaymentRepo) GetByIdempotencyKey(_ context.Context, key string) (*payment.Payment, error) {
	for _, aggregate := range r.byID {
		if aggregate.IdempotencyKey() == key {
			return aggregate, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("idempotencyKey", key)
}

func (r *memPaymentRepo) GetAllByOrder(_ context.Context, orderID kernel.UUID) ([]*payment.Payment, error) {
	var result []*payment.Payment
	for _, aggregate := range r.byID {
		if aggregate.OrderID().IsEqual(orderID) {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

func (r *memPaymentRepo) GetAllPending(_ context.Context) ([]*payment.Payment, error) {
	var result []*payment.Payment
	for _, aggregate := range r.byID {
		if aggregate.Status() == payment.Pending {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

type memCoopRepo struct {
	byID map[kernel.UUID]*coop.Entry
}

func newMemCoopRepo() *memCoopRepo {
	return &memCoopRepo{byID: map[kernel.UUID]*coop.Entry{}}
}

func (r *memCoopRepo) Add(_ context.Context, entry *coop.Entry) error {
	r.byID[entry.ID()] = entry
	return nil
}

func (r *memCoopRepo) Delete(_ context.Context, id kernel.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return errs.NewObjectNotFoundError("coopEntry", id.String())
	}
	delete(r.byID, id)
	return nil
}

func (r *memCoopRepo) GetAllByProfile(_ context.Context, profileID kernel.UUID) ([]*coop.Entry, error) {
	var result []*coop.Entry
	for _, entry := range r.byID {
		if entry.ProfileID().IsEqual(profileID) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *memCoopRepo) GetAllByOrder(_ context.Context, orderID kernel.UUID) ([]*coop.Entry, error) {
	var result []*coop.Entry
	for _, entry := range r.byID {
		if entry.OrderID().IsEqual(orderID) {
			result = append(result, entry)
		}
	}
	return result, nil
}

// memStore bundles the repositories behind no-op transactions.
type memStore struct {
	orders       *memOrderRepo
	participants *memParticipantRepo
	payments     *memPaymentRepo
	coops        *memCoopRepo
	commits      int
}

func newMemStore() *memStore {
	return &memStore{
		orders:       newMemOrderRepo(),
		participants: newMemParticipantRepo(),
		payments:     newMemPaymentRepo(),
		coops:        newMemCoopRepo(),
	}
}

func (s *memStore) Begin(context.Context) error { return nil }
func (s *memStore) Commit(context.Context) error {
	s.commits++
	return nil
}
func (s *memStore) Rollback(context.Context) error { return nil }

func (s *memStore) OrderRepository() ports.OrderRepository             { return s.orders }
func (s *memStore) ParticipantRepository() ports.ParticipantRepository { return s.participants }
func (s *memStore) PaymentRepository() ports.PaymentRepository         { return s.payments }
func (s *memStore) CoopRepository() ports.CoopRepository               { return s.coops }

// The factory interfaces differ only in return type, so each gets a thin
// wrapper over the shared store.

type memUoWFactory struct{ store *memStore }

func (f memUoWFactory) Create() commands.UoW { return f.store }

type memOrderUoWFactory struct{ store *memStore }

func (f memOrderUoWFactory) Create() commands.OrderUoW { return f.store }

type memParticipationUoWFactory struct{ store *memStore }

func (f memParticipationUoWFactory) Create() commands.ParticipationUoW { return f.store }

type MockCatalogClient struct{ mock.Mock }

func (m *MockCatalogClient) GetProduct(ctx context.Context, productID kernel.UUID, lotID *kernel.UUID) (ports.CatalogProduct, error) {
	args := m.Called(ctx, productID, lotID)
	return args.Get(0).(ports.CatalogProduct), args.Error(1)
}

type MockPaymentProvider struct{ mock.Mock }

func (m *MockPaymentProvider) CreatePaymentIntent(ctx context.Context, idempotencyKey string, amount kernel.Cents, currency kernel.Currency) (ports.PaymentIntent, error) {
	args := m.Called(ctx, idempotencyKey, amount, currency)
	return args.Get(0).(ports.PaymentIntent), args.Error(1)
}

func (m *MockPaymentProvider) GetPaymentStatus(ctx context.Context, providerRef string) (ports.PaymentConfirmation, error) {
	args := m.Called(ctx, providerRef)
	return args.Get(0).(ports.PaymentConfirmation), args.Error(1)
}

type MockInvoiceIssuer struct{ mock.Mock }

func (m *MockInvoiceIssuer) IssueCommissionInvoice(ctx context.Context, orderID kernel.UUID, amount kernel.Cents, currency kernel.Currency) (string, error) {
	args := m.Called(ctx, orderID, amount, currency)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceIssuer) IssueParticipantInvoice(ctx context.Context, idempotencyKey string, orderID, participantID kernel.UUID, amount kernel.Cents, currency kernel.Currency) (string, error) {
	args := m.Called(ctx, idempotencyKey, orderID, participantID, amount, currency)
	return args.String(0), args.Error(1)
}
