package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. Every operation runs
// the same pipeline: input validation, rate limiting, pessimistic wallet
// locking, policy limits, PIN authorization, then the balance mutations
// and ledger record inside one database transaction.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	agentRepo  ports.AgentRepository
	linkRepo   ports.PaymentLinkRepository
	pinAuth    ports.PinAuthorizer
	refGen     ports.ReferenceGenerator
	rateStore  ports.RateLimitStore
	auditSvc   ports.AuditService
	transactor ports.DBTransactor
	log        zerolog.Logger
	now        func() time.Time
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	agentRepo ports.AgentRepository,
	linkRepo ports.PaymentLinkRepository,
	pinAuth ports.PinAuthorizer,
	refGen ports.ReferenceGenerator,
	rateStore ports.RateLimitStore,
	auditSvc ports.AuditService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		agentRepo:  agentRepo,
		linkRepo:   linkRepo,
		pinAuth:    pinAuth,
		refGen:     refGen,
		rateStore:  rateStore,
		auditSvc:   auditSvc,
		transactor: transactor,
		log:        log,
		now:        time.Now,
	}
}

// Transfer moves funds between two wallets.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.LedgerResult, error) {
	details := map[string]any{
		"sender_wallet_id":   req.SenderWalletID.String(),
		"receiver_wallet_id": req.ReceiverWalletID.String(),
		"amount":             req.Amount,
	}
	return s.run(ctx, domain.TransactionKindTransfer, req.Meta, details, func() (*ports.LedgerResult, error) {
		return s.transfer(ctx, req)
	})
}

func (s *LedgerServiceImpl) transfer(ctx context.Context, req ports.TransferRequest) (*ports.LedgerResult, error) {
	if req.SenderWalletID == uuid.Nil || req.ReceiverWalletID == uuid.Nil || req.Amount == "" || req.PIN == "" {
		return nil, apperror.ErrMissingFields("sender_wallet_id, receiver_wallet_id, amount, pin")
	}
	if req.SenderWalletID == req.ReceiverWalletID {
		return nil, apperror.ErrSelfTransfer()
	}

	kind := domain.TransactionKindTransfer
	amount, err := s.parseAmount(req.Amount, kind)
	if err != nil {
		return nil, err
	}
	if err := s.allowOperation(ctx, kind, req.SenderWalletID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sender, receiver, err := s.lockWalletPair(ctx, dbTx, req.SenderWalletID, req.ReceiverWalletID)
	if err != nil {
		return nil, err
	}
	if !sender.Active || !receiver.Active {
		return nil, apperror.ErrWalletInactive()
	}
	if sender.Currency != receiver.Currency {
		return nil, apperror.ErrCurrencyMismatch()
	}

	if err := s.checkKindLimits(ctx, dbTx, sender.ID, kind, amount, false); err != nil {
		return nil, err
	}

	// Transfers between non-customer wallets carry no PIN credential.
	if sender.OwnerRole == domain.OwnerRoleCustomer {
		if _, err := s.pinAuth.AuthorizeWallet(ctx, sender.ID, req.PIN); err != nil {
			return nil, err
		}
	}

	if sender.Balance.LessThan(amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now().UTC()
	oldSender := sender.Balance
	oldReceiver := receiver.Balance
	newSender := oldSender.Sub(amount)
	newReceiver := oldReceiver.Add(amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, sender.ID, newSender, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, receiver.ID, newReceiver, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit receiver: %w", err))
	}

	txn, err := s.buildTransaction(ctx, dbTx, kind, amount, sender.Currency, now)
	if err != nil {
		return nil, err
	}
	txn.SenderWalletID = &sender.ID
	txn.ReceiverWalletID = &receiver.ID
	if req.Description != "" {
		txn.Metadata = map[string]any{"description": req.Description}
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("reference", txn.Reference).
		Str("amount", amount.String()).
		Msg("transfer completed")

	return &ports.LedgerResult{
		Transaction:   txn,
		Balances:      ports.ResultBalances{Sender: &newSender, Receiver: &newReceiver},
		PriorBalances: ports.ResultBalances{Sender: &oldSender, Receiver: &oldReceiver},
	}, nil
}

// Deposit credits a customer wallet with cash handed to an agent. The
// agent's cash float increases by the same amount and, when the agent
// has a linked wallet, that wallet's balance mirrors the new float.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*ports.LedgerResult, error) {
	details := map[string]any{
		"agent_id":           req.AgentID.String(),
		"customer_wallet_id": req.CustomerWalletID.String(),
		"amount":             req.Amount,
	}
	return s.run(ctx, domain.TransactionKindDeposit, req.Meta, details, func() (*ports.LedgerResult, error) {
		return s.deposit(ctx, req)
	})
}

func (s *LedgerServiceImpl) deposit(ctx context.Context, req ports.DepositRequest) (*ports.LedgerResult, error) {
	if req.AgentID == uuid.Nil || req.CustomerWalletID == uuid.Nil || req.Amount == "" || req.PIN == "" {
		return nil, apperror.ErrMissingFields("agent_id, customer_wallet_id, amount, pin")
	}

	kind := domain.TransactionKindDeposit
	amount, err := s.parseAmount(req.Amount, kind)
	if err != nil {
		return nil, err
	}
	if err := s.allowOperation(ctx, kind, req.CustomerWalletID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	agent, customer, err := s.lockAgentAndCustomer(ctx, dbTx, req.AgentID, req.CustomerWalletID)
	if err != nil {
		return nil, err
	}

	if err := s.checkKindLimits(ctx, dbTx, customer.ID, kind, amount, true); err != nil {
		return nil, err
	}

	// The deposit is authorized by the customer receiving the funds,
	// regardless of which side initiated the call.
	if _, err := s.pinAuth.AuthorizeWallet(ctx, customer.ID, req.PIN); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	oldCustomer := customer.Balance
	oldCash := agent.CashBalance
	newCustomer := oldCustomer.Add(amount)
	newCash := oldCash.Add(amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, customer.ID, newCustomer, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit customer: %w", err))
	}
	if err := s.applyAgentCash(ctx, dbTx, agent, newCash, now); err != nil {
		return nil, err
	}

	txn, err := s.buildTransaction(ctx, dbTx, kind, amount, customer.Currency, now)
	if err != nil {
		return nil, err
	}
	txn.SenderWalletID = agent.WalletID
	txn.ReceiverWalletID = &customer.ID
	txn.AgentID = &agent.ID

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("reference", txn.Reference).
		Str("amount", amount.String()).
		Msg("deposit completed")

	return &ports.LedgerResult{
		Transaction:   txn,
		Balances:      ports.ResultBalances{Receiver: &newCustomer, AgentCash: &newCash},
		PriorBalances: ports.ResultBalances{Receiver: &oldCustomer, AgentCash: &oldCash},
	}, nil
}

// Withdraw debits a customer wallet for cash paid out by an agent. The
// agent's cash float decreases by the same amount and the linked agent
// wallet mirrors the new float.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.LedgerResult, error) {
	details := map[string]any{
		"agent_id":           req.AgentID.String(),
		"customer_wallet_id": req.CustomerWalletID.String(),
		"amount":             req.Amount,
	}
	return s.run(ctx, domain.TransactionKindWithdrawal, req.Meta, details, func() (*ports.LedgerResult, error) {
		return s.withdraw(ctx, req)
	})
}

func (s *LedgerServiceImpl) withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.LedgerResult, error) {
	if req.AgentID == uuid.Nil || req.CustomerWalletID == uuid.Nil || req.Amount == "" || req.PIN == "" {
		return nil, apperror.ErrMissingFields("agent_id, customer_wallet_id, amount, pin")
	}

	kind := domain.TransactionKindWithdrawal
	amount, err := s.parseAmount(req.Amount, kind)
	if err != nil {
		return nil, err
	}
	if err := s.allowOperation(ctx, kind, req.CustomerWalletID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	agent, customer, err := s.lockAgentAndCustomer(ctx, dbTx, req.AgentID, req.CustomerWalletID)
	if err != nil {
		return nil, err
	}

	if err := s.checkKindLimits(ctx, dbTx, customer.ID, kind, amount, false); err != nil {
		return nil, err
	}

	if _, err := s.pinAuth.AuthorizeWallet(ctx, customer.ID, req.PIN); err != nil {
		return nil, err
	}

	if agent.CashBalance.LessThan(amount) {
		return nil, apperror.ErrInsufficientAgentCash()
	}
	if customer.Balance.LessThan(amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now().UTC()
	oldCustomer := customer.Balance
	oldCash := agent.CashBalance
	newCustomer := oldCustomer.Sub(amount)
	newCash := oldCash.Sub(amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, customer.ID, newCustomer, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit customer: %w", err))
	}
	if err := s.applyAgentCash(ctx, dbTx, agent, newCash, now); err != nil {
		return nil, err
	}

	txn, err := s.buildTransaction(ctx, dbTx, kind, amount, customer.Currency, now)
	if err != nil {
		return nil, err
	}
	txn.SenderWalletID = &customer.ID
	txn.ReceiverWalletID = agent.WalletID
	txn.AgentID = &agent.ID

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("reference", txn.Reference).
		Str("amount", amount.String()).
		Msg("withdrawal completed")

	return &ports.LedgerResult{
		Transaction:   txn,
		Balances:      ports.ResultBalances{Sender: &newCustomer, AgentCash: &newCash},
		PriorBalances: ports.ResultBalances{Sender: &oldCustomer, AgentCash: &oldCash},
	}, nil
}

// PayLink pays a merchant wallet, optionally redeeming a payment link.
// A redeemed link is marked completed inside the same transaction as the
// balance mutations.
func (s *LedgerServiceImpl) PayLink(ctx context.Context, req ports.PaymentRequest) (*ports.LedgerResult, error) {
	details := map[string]any{
		"sender_wallet_id":   req.SenderWalletID.String(),
		"merchant_wallet_id": req.MerchantWalletID.String(),
		"amount":             req.Amount,
	}
	if req.LinkID != nil {
		details["link_id"] = *req.LinkID
	}
	return s.run(ctx, domain.TransactionKindPayment, req.Meta, details, func() (*ports.LedgerResult, error) {
		return s.payLink(ctx, req)
	})
}

func (s *LedgerServiceImpl) payLink(ctx context.Context, req ports.PaymentRequest) (*ports.LedgerResult, error) {
	if req.SenderWalletID == uuid.Nil || req.MerchantWalletID == uuid.Nil || req.Amount == "" || req.PIN == "" {
		return nil, apperror.ErrMissingFields("sender_wallet_id, merchant_wallet_id, amount, pin")
	}
	if req.SenderWalletID == req.MerchantWalletID {
		return nil, apperror.ErrSelfTransfer()
	}

	kind := domain.TransactionKindPayment
	amount, err := s.parseAmount(req.Amount, kind)
	if err != nil {
		return nil, err
	}
	if err := s.allowOperation(ctx, kind, req.SenderWalletID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sender, merchant, err := s.lockWalletPair(ctx, dbTx, req.SenderWalletID, req.MerchantWalletID)
	if err != nil {
		return nil, err
	}
	if !sender.Active || !merchant.Active {
		return nil, apperror.ErrWalletInactive()
	}
	if merchant.OwnerRole != domain.OwnerRoleMerchant {
		return nil, apperror.ErrWalletRoleMismatch("merchant")
	}
	if sender.Currency != merchant.Currency {
		return nil, apperror.ErrCurrencyMismatch()
	}

	if err := s.checkKindLimits(ctx, dbTx, sender.ID, kind, amount, false); err != nil {
		return nil, err
	}

	if sender.OwnerRole == domain.OwnerRoleCustomer {
		if _, err := s.pinAuth.AuthorizeWallet(ctx, sender.ID, req.PIN); err != nil {
			return nil, err
		}
	}

	var link *domain.PaymentLink
	if req.LinkID != nil {
		link, err = s.redeemableLink(ctx, dbTx, *req.LinkID, merchant.OwnerID, amount)
		if err != nil {
			return nil, err
		}
	}

	if sender.Balance.LessThan(amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now().UTC()
	oldSender := sender.Balance
	oldMerchant := merchant.Balance
	newSender := oldSender.Sub(amount)
	newMerchant := oldMerchant.Add(amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, sender.ID, newSender, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, merchant.ID, newMerchant, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit merchant: %w", err))
	}
	if link != nil {
		if err := s.linkRepo.UpdateStatus(ctx, dbTx, link.ID, domain.PaymentLinkStatusCompleted); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("complete payment link: %w", err))
		}
	}

	txn, err := s.buildTransaction(ctx, dbTx, kind, amount, sender.Currency, now)
	if err != nil {
		return nil, err
	}
	txn.SenderWalletID = &sender.ID
	txn.ReceiverWalletID = &merchant.ID
	txn.MerchantID = &merchant.OwnerID
	if link != nil {
		txn.PaymentLinkID = &link.ID
		txn.Metadata = map[string]any{"link_id": link.LinkID}
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("reference", txn.Reference).
		Str("amount", amount.String()).
		Msg("payment completed")

	return &ports.LedgerResult{
		Transaction:   txn,
		Balances:      ports.ResultBalances{Sender: &newSender, Receiver: &newMerchant},
		PriorBalances: ports.ResultBalances{Sender: &oldSender, Receiver: &oldMerchant},
	}, nil
}

// --- pipeline helpers ---

// run wraps an operation with its audit lifecycle: "initiated" before
// the attempt, "completed" after commit, "failed" on any error. The
// initiated and failed entries are written outside the database
// transaction so they survive a rollback.
func (s *LedgerServiceImpl) run(
	ctx context.Context,
	kind domain.TransactionKind,
	meta ports.RequestMeta,
	details map[string]any,
	op func() (*ports.LedgerResult, error),
) (*ports.LedgerResult, error) {
	s.auditStage(ctx, kind, domain.AuditStageInitiated, meta, nil, details, domain.AuditStatusSuccess, domain.AuditSeverityLow, "")

	res, err := op()
	if err != nil {
		failed := cloneDetails(details)
		failed["error"] = err.Error()
		s.auditStage(ctx, kind, domain.AuditStageFailed, meta, nil, failed, domain.AuditStatusFailure, domain.AuditSeverityHigh, "")
		return nil, err
	}

	// The completed entry carries before/after balance snapshots of every
	// account the operation touched.
	completed := cloneDetails(details)
	completed["reference"] = res.Transaction.Reference
	for k, v := range balanceSnapshot(res.Balances) {
		completed[k] = v
	}
	s.auditStage(ctx, kind, domain.AuditStageCompleted, meta, balanceSnapshot(res.PriorBalances), completed, domain.AuditStatusSuccess, domain.AuditSeverityLow, res.Transaction.ID.String())
	return res, nil
}

func (s *LedgerServiceImpl) auditStage(
	ctx context.Context,
	kind domain.TransactionKind,
	stage string,
	meta ports.RequestMeta,
	oldValues map[string]any,
	newValues map[string]any,
	status domain.AuditStatus,
	severity domain.AuditSeverity,
	resourceID string,
) {
	entry := &domain.AuditLog{
		ID:           uuid.New(),
		Action:       domain.AuditAction(kind, stage),
		ResourceType: "transaction",
		ResourceID:   resourceID,
		ActorID:      meta.ActorProfileID,
		IPAddress:    meta.ClientIP,
		UserAgent:    meta.UserAgent,
		Severity:     severity,
		Status:       status,
		CreatedAt:    s.now().UTC(),
	}
	if len(oldValues) > 0 {
		if b, err := json.Marshal(oldValues); err == nil {
			entry.OldValues = string(b)
		}
	}
	if len(newValues) > 0 {
		if b, err := json.Marshal(newValues); err == nil {
			entry.NewValues = string(b)
		}
	}
	s.auditSvc.Log(ctx, entry)
}

// balanceSnapshot flattens the set fields of a balance set into audit
// snapshot keys.
func balanceSnapshot(b ports.ResultBalances) map[string]any {
	out := make(map[string]any, 3)
	if b.Sender != nil {
		out["sender_balance"] = b.Sender.String()
	}
	if b.Receiver != nil {
		out["receiver_balance"] = b.Receiver.String()
	}
	if b.AgentCash != nil {
		out["agent_cash_balance"] = b.AgentCash.String()
	}
	return out
}

// parseAmount parses the raw client amount and enforces the per-kind
// [min, max] bounds.
func (s *LedgerServiceImpl) parseAmount(raw string, kind domain.TransactionKind) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.ErrInvalidAmount()
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperror.ErrInvalidAmount()
	}
	p := policyFor(kind)
	if amount.LessThan(p.Min) {
		return decimal.Zero, apperror.ErrAmountBelowMinimum()
	}
	if amount.GreaterThan(p.Max) {
		return decimal.Zero, apperror.ErrAmountAboveMaximum()
	}
	return amount, nil
}

// allowOperation checks the per-actor rate limit for a kind. A store
// error degrades open: the operation proceeds and the failure is logged.
func (s *LedgerServiceImpl) allowOperation(ctx context.Context, kind domain.TransactionKind, actingWalletID uuid.UUID) error {
	p := policyFor(kind)
	key := string(kind) + ":" + actingWalletID.String()

	result, err := s.rateStore.Allow(ctx, key, p.RateLimit, p.RateWindow)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
		return nil
	}
	if !result.Allowed {
		return apperror.ErrRateLimitExceeded(string(kind))
	}
	return nil
}

// lockWalletPair locks two wallets FOR UPDATE in deterministic ID order
// so concurrent operations on the same pair cannot deadlock. Results are
// returned in the caller's argument order.
func (s *LedgerServiceImpl) lockWalletPair(ctx context.Context, dbTx pgx.Tx, firstID, secondID uuid.UUID) (*domain.Wallet, *domain.Wallet, error) {
	ids := []uuid.UUID{firstID, secondID}
	if bytes.Compare(ids[0][:], ids[1][:]) > 0 {
		ids[0], ids[1] = ids[1], ids[0]
	}

	locked := make(map[uuid.UUID]*domain.Wallet, 2)
	for _, id := range ids {
		w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if w == nil {
			return nil, nil, apperror.ErrNotFound("wallet")
		}
		locked[id] = w
	}
	return locked[firstID], locked[secondID], nil
}

// lockAgentAndCustomer locks the agent row, the customer wallet and the
// agent's linked wallet (when present) and validates party status for
// cash operations. The agent row is always taken first; wallets follow
// in deterministic ID order.
func (s *LedgerServiceImpl) lockAgentAndCustomer(ctx context.Context, dbTx pgx.Tx, agentID, customerWalletID uuid.UUID) (*domain.Agent, *domain.Wallet, error) {
	agent, err := s.agentRepo.GetByIDForUpdate(ctx, dbTx, agentID)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock agent: %w", err))
	}
	if agent == nil {
		return nil, nil, apperror.ErrNotFound("agent")
	}
	if agent.Status != domain.AgentStatusActive {
		return nil, nil, apperror.ErrAgentNotActive()
	}

	var customer *domain.Wallet
	if agent.WalletID != nil {
		customer, _, err = s.lockWalletPair(ctx, dbTx, customerWalletID, *agent.WalletID)
	} else {
		customer, err = s.walletRepo.GetByIDForUpdate(ctx, dbTx, customerWalletID)
		if err != nil {
			err = apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		} else if customer == nil {
			err = apperror.ErrNotFound("wallet")
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if !customer.Active {
		return nil, nil, apperror.ErrWalletInactive()
	}
	if customer.OwnerRole != domain.OwnerRoleCustomer {
		return nil, nil, apperror.ErrWalletRoleMismatch("customer")
	}
	return agent, customer, nil
}

// applyAgentCash persists the agent's new cash float and mirrors it to
// the linked agent wallet.
func (s *LedgerServiceImpl) applyAgentCash(ctx context.Context, dbTx pgx.Tx, agent *domain.Agent, newCash decimal.Decimal, now time.Time) error {
	if err := s.agentRepo.UpdateCashBalance(ctx, dbTx, agent.ID, newCash); err != nil {
		return apperror.InternalError(fmt.Errorf("update agent cash: %w", err))
	}
	if agent.WalletID != nil {
		if err := s.walletRepo.UpdateBalance(ctx, dbTx, *agent.WalletID, newCash, now); err != nil {
			return apperror.InternalError(fmt.Errorf("mirror agent wallet: %w", err))
		}
	}
	return nil
}

// checkKindLimits enforces the rolling daily and monthly caps for a
// wallet and kind. Deposits count the receiving side; everything else
// counts the sending side. Day and month boundaries use local time.
func (s *LedgerServiceImpl) checkKindLimits(ctx context.Context, dbTx pgx.Tx, walletID uuid.UUID, kind domain.TransactionKind, amount decimal.Decimal, received bool) error {
	p := policyFor(kind)
	now := s.now()

	sum := s.txRepo.SumCompletedSent
	if received {
		sum = s.txRepo.SumCompletedReceived
	}

	dailySum, err := sum(ctx, dbTx, walletID, kind, startOfDay(now))
	if err != nil {
		return apperror.InternalError(fmt.Errorf("sum daily %s: %w", kind, err))
	}
	if dailySum.Add(amount).GreaterThan(p.DailyMax) {
		return apperror.ErrDailyLimitExceeded()
	}

	monthlySum, err := sum(ctx, dbTx, walletID, kind, startOfMonth(now))
	if err != nil {
		return apperror.InternalError(fmt.Errorf("sum monthly %s: %w", kind, err))
	}
	if monthlySum.Add(amount).GreaterThan(p.MonthlyMax) {
		return apperror.ErrMonthlyLimitExceeded()
	}
	return nil
}

// redeemableLink locks a payment link and validates it against the
// payment being made.
func (s *LedgerServiceImpl) redeemableLink(ctx context.Context, dbTx pgx.Tx, linkID string, merchantID uuid.UUID, amount decimal.Decimal) (*domain.PaymentLink, error) {
	link, err := s.linkRepo.GetByLinkIDForUpdate(ctx, dbTx, linkID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock payment link: %w", err))
	}
	if link == nil {
		return nil, apperror.ErrNotFound("payment link")
	}
	if link.Status == domain.PaymentLinkStatusExpired {
		return nil, apperror.ErrPaymentLinkExpired()
	}
	if link.Status != domain.PaymentLinkStatusActive {
		return nil, apperror.ErrPaymentLinkNotActive(string(link.Status))
	}
	if link.IsExpired(s.now()) {
		return nil, apperror.ErrPaymentLinkExpired()
	}
	if link.MerchantID != merchantID {
		return nil, apperror.ErrPaymentLinkMerchantMismatch()
	}
	if link.Type == domain.PaymentLinkTypeFixed && !link.Amount.Equal(amount) {
		return nil, apperror.ErrPaymentLinkAmountMismatch()
	}
	return link, nil
}

// buildTransaction allocates a reference and assembles the common fields
// of a completed ledger record.
func (s *LedgerServiceImpl) buildTransaction(ctx context.Context, dbTx pgx.Tx, kind domain.TransactionKind, amount decimal.Decimal, currency string, now time.Time) (*domain.Transaction, error) {
	ref, err := s.refGen.Generate(ctx, dbTx, kind)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:          uuid.New(),
		Kind:        kind,
		Amount:      amount,
		Currency:    currency,
		Status:      domain.TransactionStatusCompleted,
		Fee:         decimal.Zero,
		Reference:   ref,
		CreatedAt:   now,
		ProcessedAt: &now,
	}, nil
}

func cloneDetails(details map[string]any) map[string]any {
	out := make(map[string]any, len(details)+2)
	for k, v := range details {
		out[k] = v
	}
	return out
}
