package app

import (
	"context"
	"fmt"
	"sync"

	authService "github.com/allisson/codepool/internal/auth/service"
	codesHTTP "github.com/allisson/codepool/internal/codes/http"
	codesRepository "github.com/allisson/codepool/internal/codes/repository"
	"github.com/allisson/codepool/internal/codes/repository/memory"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
	cryptoService "github.com/allisson/codepool/internal/crypto/service"
	"github.com/allisson/codepool/internal/notification"
	outboxRepository "github.com/allisson/codepool/internal/outbox/repository"
	outboxUseCase "github.com/allisson/codepool/internal/outbox/usecase"
)

// OutboxRepository is the full outbox repository surface: the claim path appends events
// and the outbox worker drains them.
type OutboxRepository interface {
	outboxUseCase.OutboxEventRepository
}

// components holds the code pool components built by the container.
type components struct {
	codec              cryptoService.Codec
	apiKeyService      authService.APIKeyService
	authenticator      authService.Authenticator
	mailer             notification.Mailer
	codeRepo           codesUseCase.CodeRepository
	planRepo           codesUseCase.PlanRepository
	redemptionRepo     codesUseCase.RedemptionRepository
	outboxRepo         OutboxRepository
	allocatorUseCase   codesUseCase.AllocatorUseCase
	issuerUseCase      codesUseCase.IssuerUseCase
	planUseCase        codesUseCase.PlanUseCase
	ledgerUseCase      codesUseCase.LedgerUseCase
	fulfillmentUseCase codesUseCase.FulfillmentUseCase
	outboxUseCase      *outboxUseCase.OutboxUseCase
	codeHandler        *codesHTTP.CodeHandler
	planHandler        *codesHTTP.PlanHandler

	codecInit              sync.Once
	apiKeyServiceInit      sync.Once
	authenticatorInit      sync.Once
	mailerInit             sync.Once
	codeRepoInit           sync.Once
	planRepoInit           sync.Once
	redemptionRepoInit     sync.Once
	outboxRepoInit         sync.Once
	allocatorUseCaseInit   sync.Once
	issuerUseCaseInit      sync.Once
	planUseCaseInit        sync.Once
	ledgerUseCaseInit      sync.Once
	fulfillmentUseCaseInit sync.Once
	outboxUseCaseInit      sync.Once
	codeHandlerInit        sync.Once
	planHandlerInit        sync.Once
}

// Codec returns the process-wide code codec. A missing or unusable secret is reported
// as a configuration error.
func (c *Container) Codec() (cryptoService.Codec, error) {
	return resolve(c, &c.codecInit, "codec", &c.codec, c.initCodec)
}

// APIKeyService returns the API key hashing service.
func (c *Container) APIKeyService() authService.APIKeyService {
	c.apiKeyServiceInit.Do(func() {
		c.apiKeyService = authService.NewAPIKeyService()
	})
	return c.apiKeyService
}

// Authenticator returns the API key authenticator built from the configured hashes.
func (c *Container) Authenticator() authService.Authenticator {
	c.authenticatorInit.Do(func() {
		c.authenticator = authService.NewAuthenticator(
			c.APIKeyService(),
			c.config.AdminAPIKeyHash,
			c.config.StorefrontAPIKeyHash,
		)
	})
	return c.authenticator
}

// Mailer returns the SMTP mailer, or a disabled mailer when no SMTP host is configured.
func (c *Container) Mailer() (notification.Mailer, error) {
	return resolve(c, &c.mailerInit, "mailer", &c.mailer, c.initMailer)
}

// CodeRepository returns the code record repository for the configured driver.
func (c *Container) CodeRepository() (codesUseCase.CodeRepository, error) {
	return resolve(c, &c.codeRepoInit, "codeRepo", &c.codeRepo, c.initCodeRepository)
}

// PlanRepository returns the plan repository for the configured driver.
func (c *Container) PlanRepository() (codesUseCase.PlanRepository, error) {
	return resolve(c, &c.planRepoInit, "planRepo", &c.planRepo, c.initPlanRepository)
}

// RedemptionRepository returns the ledger repository for the configured driver.
func (c *Container) RedemptionRepository() (codesUseCase.RedemptionRepository, error) {
	return resolve(c, &c.redemptionRepoInit, "redemptionRepo", &c.redemptionRepo, c.initRedemptionRepository)
}

// OutboxRepository returns the outbox event repository for the configured driver.
func (c *Container) OutboxRepository() (OutboxRepository, error) {
	return resolve(c, &c.outboxRepoInit, "outboxRepo", &c.outboxRepo, c.initOutboxRepository)
}

// AllocatorUseCase returns the claim use case.
func (c *Container) AllocatorUseCase() (codesUseCase.AllocatorUseCase, error) {
	return resolve(c, &c.allocatorUseCaseInit, "allocatorUseCase", &c.allocatorUseCase, c.initAllocatorUseCase)
}

// IssuerUseCase returns the issuance use case.
func (c *Container) IssuerUseCase() (codesUseCase.IssuerUseCase, error) {
	return resolve(c, &c.issuerUseCaseInit, "issuerUseCase", &c.issuerUseCase, c.initIssuerUseCase)
}

// PlanUseCase returns the plan use case.
func (c *Container) PlanUseCase() (codesUseCase.PlanUseCase, error) {
	return resolve(c, &c.planUseCaseInit, "planUseCase", &c.planUseCase, c.initPlanUseCase)
}

// LedgerUseCase returns the ledger use case.
func (c *Container) LedgerUseCase() (codesUseCase.LedgerUseCase, error) {
	return resolve(c, &c.ledgerUseCaseInit, "ledgerUseCase", &c.ledgerUseCase, c.initLedgerUseCase)
}

// FulfillmentUseCase returns the claim-and-deliver use case.
func (c *Container) FulfillmentUseCase() (codesUseCase.FulfillmentUseCase, error) {
	return resolve(c, &c.fulfillmentUseCaseInit, "fulfillmentUseCase", &c.fulfillmentUseCase,
		c.initFulfillmentUseCase)
}

// OutboxUseCase returns the outbox worker that emails stock alerts.
func (c *Container) OutboxUseCase() (*outboxUseCase.OutboxUseCase, error) {
	return resolve(c, &c.outboxUseCaseInit, "outboxUseCase", &c.outboxUseCase, c.initOutboxUseCase)
}

// CodeHandler returns the HTTP handler for issuing and claiming codes.
func (c *Container) CodeHandler() (*codesHTTP.CodeHandler, error) {
	return resolve(c, &c.codeHandlerInit, "codeHandler", &c.codeHandler, c.initCodeHandler)
}

// PlanHandler returns the HTTP handler for plans and the ledger.
func (c *Container) PlanHandler() (*codesHTTP.PlanHandler, error) {
	return resolve(c, &c.planHandlerInit, "planHandler", &c.planHandler, c.initPlanHandler)
}

func (c *Container) initCodec() (cryptoService.Codec, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CodeEncryptionAlgorithm)
	if err != nil {
		return nil, err
	}

	codec, err := cryptoService.LoadCodec(
		context.Background(),
		c.config.CodeEncryptionSecret,
		c.config.CodeEncryptionSecretKMSKeyURI,
		alg,
		cryptoService.NewKMSService(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load code codec: %w", err)
	}
	return codec, nil
}

func (c *Container) initMailer() (notification.Mailer, error) {
	if c.config.SMTPHost == "" {
		c.Logger().Warn("smtp host not configured, email delivery disabled")
		return notification.NewDisabledMailer(), nil
	}

	mailer, err := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:      c.config.SMTPHost,
		Port:      c.config.SMTPPort,
		Username:  c.config.SMTPUsername,
		Password:  c.config.SMTPPassword,
		From:      c.config.SMTPFrom,
		TLSPolicy: c.config.SMTPTLSPolicy,
		Timeout:   c.config.SMTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp mailer: %w", err)
	}
	return mailer, nil
}

// storeFor picks the repository constructor matching the configured driver.
func storeFor[T any](
	c *Container,
	name string,
	fromMemory func(*memory.Store) T,
	fromPostgres func() (T, error),
	fromMySQL func() (T, error),
) (T, error) {
	switch c.config.DBDriver {
	case DriverMemory:
		return fromMemory(c.MemoryStore()), nil
	case DriverPostgres:
		return fromPostgres()
	case DriverMySQL:
		return fromMySQL()
	default:
		var zero T
		return zero, fmt.Errorf("unsupported database driver for %s: %s", name, c.config.DBDriver)
	}
}

func (c *Container) initCodeRepository() (codesUseCase.CodeRepository, error) {
	return storeFor(c, "code repository",
		func(s *memory.Store) codesUseCase.CodeRepository { return memory.NewCodeRepository(s) },
		func() (codesUseCase.CodeRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for code repository: %w", err)
			}
			return codesRepository.NewPostgreSQLCodeRepository(db), nil
		},
		func() (codesUseCase.CodeRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for code repository: %w", err)
			}
			return codesRepository.NewMySQLCodeRepository(db), nil
		},
	)
}

func (c *Container) initPlanRepository() (codesUseCase.PlanRepository, error) {
	return storeFor(c, "plan repository",
		func(s *memory.Store) codesUseCase.PlanRepository { return memory.NewPlanRepository(s) },
		func() (codesUseCase.PlanRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for plan repository: %w", err)
			}
			return codesRepository.NewPostgreSQLPlanRepository(db), nil
		},
		func() (codesUseCase.PlanRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for plan repository: %w", err)
			}
			return codesRepository.NewMySQLPlanRepository(db), nil
		},
	)
}

func (c *Container) initRedemptionRepository() (codesUseCase.RedemptionRepository, error) {
	return storeFor(c, "redemption repository",
		func(s *memory.Store) codesUseCase.RedemptionRepository { return memory.NewRedemptionRepository(s) },
		func() (codesUseCase.RedemptionRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for redemption repository: %w", err)
			}
			return codesRepository.NewPostgreSQLRedemptionRepository(db), nil
		},
		func() (codesUseCase.RedemptionRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for redemption repository: %w", err)
			}
			return codesRepository.NewMySQLRedemptionRepository(db), nil
		},
	)
}

func (c *Container) initOutboxRepository() (OutboxRepository, error) {
	return storeFor(c, "outbox repository",
		func(s *memory.Store) OutboxRepository { return memory.NewOutboxEventRepository(s) },
		func() (OutboxRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
			}
			return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
		},
		func() (OutboxRepository, error) {
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
			}
			return outboxRepository.NewMySQLOutboxEventRepository(db), nil
		},
	)
}

func (c *Container) initAllocatorUseCase() (codesUseCase.AllocatorUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for allocator use case: %w", err)
	}
	codeRepo, err := c.CodeRepository()
	if err != nil {
		return nil, err
	}
	planRepo, err := c.PlanRepository()
	if err != nil {
		return nil, err
	}
	redemptionRepo, err := c.RedemptionRepository()
	if err != nil {
		return nil, err
	}
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, err
	}
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}

	baseUseCase := codesUseCase.NewAllocatorUseCase(
		codesUseCase.AllocatorConfig{
			MaxAttempts:       c.config.ClaimMaxAttempts,
			LowStockThreshold: c.config.LowStockThreshold,
		},
		txManager,
		codeRepo,
		planRepo,
		redemptionRepo,
		outboxRepo,
		codec,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for allocator use case: %w", err)
		}
		return codesUseCase.NewAllocatorUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initIssuerUseCase() (codesUseCase.IssuerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for issuer use case: %w", err)
	}
	codeRepo, err := c.CodeRepository()
	if err != nil {
		return nil, err
	}
	planRepo, err := c.PlanRepository()
	if err != nil {
		return nil, err
	}
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}

	baseUseCase := codesUseCase.NewIssuerUseCase(txManager, codeRepo, planRepo, codec, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for issuer use case: %w", err)
		}
		return codesUseCase.NewIssuerUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initPlanUseCase() (codesUseCase.PlanUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for plan use case: %w", err)
	}
	codeRepo, err := c.CodeRepository()
	if err != nil {
		return nil, err
	}
	planRepo, err := c.PlanRepository()
	if err != nil {
		return nil, err
	}

	baseUseCase := codesUseCase.NewPlanUseCase(txManager, codeRepo, planRepo, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for plan use case: %w", err)
		}
		return codesUseCase.NewPlanUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initLedgerUseCase() (codesUseCase.LedgerUseCase, error) {
	redemptionRepo, err := c.RedemptionRepository()
	if err != nil {
		return nil, err
	}
	return codesUseCase.NewLedgerUseCase(redemptionRepo), nil
}

func (c *Container) initFulfillmentUseCase() (codesUseCase.FulfillmentUseCase, error) {
	allocator, err := c.AllocatorUseCase()
	if err != nil {
		return nil, err
	}
	mailer, err := c.Mailer()
	if err != nil {
		return nil, err
	}
	return codesUseCase.NewFulfillmentUseCase(allocator, mailer, c.Logger()), nil
}

func (c *Container) initOutboxUseCase() (*outboxUseCase.OutboxUseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}
	mailer, err := c.Mailer()
	if err != nil {
		return nil, fmt.Errorf("failed to get mailer for outbox use case: %w", err)
	}

	useCaseConfig := outboxUseCase.Config{
		Interval:   c.config.OutboxPollInterval,
		BatchSize:  c.config.OutboxBatchSize,
		MaxRetries: c.config.OutboxMaxRetries,
	}

	processor := outboxUseCase.NewStockAlertProcessor(mailer, c.config.AdminAlertRecipients(), logger)
	return outboxUseCase.NewOutboxUseCase(useCaseConfig, txManager, outboxRepo, processor, logger), nil
}

func (c *Container) initCodeHandler() (*codesHTTP.CodeHandler, error) {
	issuer, err := c.IssuerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer use case for code handler: %w", err)
	}
	fulfillment, err := c.FulfillmentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get fulfillment use case for code handler: %w", err)
	}
	return codesHTTP.NewCodeHandler(issuer, fulfillment, c.Logger()), nil
}

func (c *Container) initPlanHandler() (*codesHTTP.PlanHandler, error) {
	plans, err := c.PlanUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get plan use case for plan handler: %w", err)
	}
	ledger, err := c.LedgerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger use case for plan handler: %w", err)
	}
	return codesHTTP.NewPlanHandler(plans, ledger, c.Logger()), nil
}
