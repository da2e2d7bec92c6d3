package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/health"
	"github.com/Chinenye997/IMS/internal/service/requester"
	"github.com/Chinenye997/IMS/internal/storage/memory"
	"github.com/Chinenye997/IMS/internal/storage/postgres"
	redisstore "github.com/Chinenye997/IMS/internal/storage/redis"
)

// Dependencies содержит хранилища и внешние подключения приложения.
type Dependencies struct {
	Products   domain.ProductRepository
	Ledger     domain.StockLedger
	Sales      domain.SaleStore
	Orders     domain.OrderRepository
	Carts      domain.CartStore
	Requesters domain.RequesterDirectory
	Logger     *log.Entry

	pg         *postgres.Store
	redisCarts *redisstore.CartStore
}

// NewDependencies собирает зависимости по конфигурации: склад либо
// в памяти, либо в Postgres; корзины либо в памяти, либо в Redis.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Requesters: requester.NewStaticDirectory(nil),
		Logger:     logger,
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		deps.pg = store
		deps.Products = postgres.NewProductRepository(store)
		deps.Ledger = postgres.NewStockLedger(store)
		deps.Sales = postgres.NewSaleStore(store)
		deps.Orders = postgres.NewOrderRepository(store)
		logger.Info("склад продаж работает поверх postgres")
	case StorageMemory, "":
		products := memory.NewProductStore()
		orders := memory.NewOrderStore()
		deps.Products = products
		deps.Ledger = products
		deps.Orders = orders
		deps.Sales = memory.NewSaleStore(products, memory.NewInvoiceSequencer(), orders)
		logger.Info("склад продаж работает в памяти")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.RedisAddr != "" {
		client := redisstore.New(cfg.RedisAddr)
		carts := redisstore.NewCartStore(client, cfg.CartTTL)
		if err := carts.Ping(ctx); err != nil {
			deps.close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		deps.redisCarts = carts
		deps.Carts = carts
		logger.WithField("addr", cfg.RedisAddr).Info("корзины хранятся в redis")
	} else {
		deps.Carts = memory.NewCartStore()
	}

	return deps, nil
}

// RegisterHealthChecks добавляет проверки внешних подключений.
func (d *Dependencies) RegisterHealthChecks(handler *health.Handler) {
	if d.pg != nil {
		handler.RegisterChecker("postgres", health.NewPingChecker("postgres", d.pg.Ping))
	}
	if d.redisCarts != nil {
		handler.RegisterChecker("redis", health.NewPingChecker("redis", d.redisCarts.Ping))
	}
}

func (d *Dependencies) close() {
	if d.pg != nil {
		if err := d.pg.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres")
		}
	}
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	d.close()
}
