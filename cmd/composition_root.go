package cmd

import (
	"log/slog"
	"os"

	"gorm.io/gorm"

	"groupbuy/internal/adapters/out/http/billing"
	"groupbuy/internal/adapters/out/http/catalog"
	"groupbuy/internal/adapters/out/http/identity"
	"groupbuy/internal/adapters/out/postgres"
	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/application/usecases/queries"
	"groupbuy/internal/jobs"
)

type CompositionRoot struct {
	gormDB         *gorm.DB
	uowFactory     postgres.GormUnitOfWorkFactory
	billingClient  *billing.Client
	catalogClient  *catalog.Client
	identityClient *identity.Client
	logger         *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	billingClient, err := billing.NewClient(config.BillingBaseURL)
	if err != nil {
		return CompositionRoot{}, err
	}

	catalogClient, err := catalog.NewClient(config.CatalogBaseURL)
	if err != nil {
		return CompositionRoot{}, err
	}

	identityClient, err := identity.NewClient(config.IdentityBaseURL)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:         gormDB,
		uowFactory:     *postgres.NewGormUnitOfWorkFactory(gormDB),
		billingClient:  billingClient,
		catalogClient:  catalogClient,
		identityClient: identityClient,
		logger:         slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.ParticipationUoWFactory = FuncParticipationUoWFactory(func() commands.ParticipationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateOrderSettingsCommandHandler() commands.UpdateOrderSettingsCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderSettingsCommandHandler(f)
}

func (c *CompositionRoot) CreateAddPickupSlotCommandHandler() commands.AddPickupSlotCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAddPickupSlotCommandHandler(f)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateLockOrderCommandHandler() commands.LockOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewLockOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateDistributeOrderCommandHandler() commands.DistributeOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewDistributeOrderCommandHandler(f, c.billingClient)
}

func (c *CompositionRoot) CreateJoinOrderCommandHandler() commands.JoinOrderCommandHandler {
	var f commands.ParticipationUoWFactory = FuncParticipationUoWFactory(func() commands.ParticipationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewJoinOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateReviewParticipationCommandHandler() commands.ReviewParticipationCommandHandler {
	var f commands.ParticipationUoWFactory = FuncParticipationUoWFactory(func() commands.ParticipationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReviewParticipationCommandHandler(f)
}

func (c *CompositionRoot) CreateSelectPickupSlotCommandHandler() commands.SelectPickupSlotCommandHandler {
	var f commands.ParticipationUoWFactory = FuncParticipationUoWFactory(func() commands.ParticipationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSelectPickupSlotCommandHandler(f)
}

func (c *CompositionRoot) CreateReviewPickupSlotCommandHandler() commands.ReviewPickupSlotCommandHandler {
	var f commands.ParticipationUoWFactory = FuncParticipationUoWFactory(func() commands.ParticipationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReviewPickupSlotCommandHandler(f)
}

func (c *CompositionRoot) CreatePurchaseCommandHandler() commands.PurchaseCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurchaseCommandHandler(f, c.catalogClient, c.billingClient, c.billingClient)
}

func (c *CompositionRoot) CreateSettleSharerDeficitCommandHandler() commands.SettleSharerDeficitCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSettleSharerDeficitCommandHandler(f, c.billingClient)
}

func (c *CompositionRoot) CreateConfirmPaymentsCommandHandler() commands.ConfirmPaymentsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmPaymentsCommandHandler(f, c.billingClient)
}

func (c *CompositionRoot) CreateRecoverCommissionInvoicesCommandHandler() commands.RecoverCommissionInvoicesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecoverCommissionInvoicesCommandHandler(f, c.billingClient)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(&c.uowFactory, c.identityClient)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateConfirmPaymentsCommandHandler(),
		c.CreateRecoverCommissionInvoicesCommandHandler(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncParticipationUoWFactory func() commands.ParticipationUoW

func (f FuncParticipationUoWFactory) Create() commands.ParticipationUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
