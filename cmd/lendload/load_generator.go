package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circulib/lending-go/features/command/addbook"
	"github.com/circulib/lending-go/features/command/borrowbook"
	"github.com/circulib/lending-go/features/command/returnbook"
	"github.com/circulib/lending-go/features/query/checkeligibility"
	"github.com/circulib/lending-go/features/query/loansbyborrower"
	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/lending"
)

// LoadGenerator drives the lending command and query handlers with weighted
// random operations at a fixed rate.
type LoadGenerator struct {
	scenario Scenario
	logger   *slog.Logger

	addBookHandler     addbook.CommandHandler
	borrowHandler      borrowbook.CommandHandler
	returnHandler      returnbook.CommandHandler
	eligibilityHandler checkeligibility.QueryHandler
	loansHandler       loansbyborrower.QueryHandler

	mu        sync.Mutex
	bookIDs   []uuid.UUID
	borrowers []uuid.UUID
	openLoans []lending.Loan

	requests  int64
	successes int64
	denials   int64
	failures  int64
}

// NewLoadGenerator creates a LoadGenerator wired to the given ledger store.
func NewLoadGenerator(store ledger.Store, scenario Scenario, logger *slog.Logger) *LoadGenerator {
	borrowers := make([]uuid.UUID, scenario.Borrowers)
	for i := range borrowers {
		borrowers[i] = uuid.New()
	}

	return &LoadGenerator{
		scenario:           scenario,
		logger:             logger,
		addBookHandler:     addbook.NewCommandHandler(store),
		borrowHandler:      borrowbook.NewCommandHandler(store),
		returnHandler:      returnbook.NewCommandHandler(store),
		eligibilityHandler: checkeligibility.NewQueryHandler(store),
		loansHandler:       loansbyborrower.NewQueryHandler(store),
		borrowers:          borrowers,
	}
}

// Seed registers the scenario's books in the catalog.
func (g *LoadGenerator) Seed(ctx context.Context) error {
	for _, seed := range g.scenario.SeedBooks {
		command := addbook.BuildCommand(
			seed.Title,
			seed.Author,
			seed.Year,
			lending.Category(seed.Category),
			seed.Copies,
			"",
			time.Now().UTC(),
		)

		book, _, err := g.addBookHandler.Handle(ctx, command)
		if err != nil {
			return err
		}

		g.bookIDs = append(g.bookIDs, book.ID)
		g.logger.Debug("seeded book", "book_id", book.ID, "title", book.Title, "copies", book.TotalCopies)
	}

	return nil
}

// Run issues operations at the scenario rate until the context is done.
func (g *LoadGenerator) Run(ctx context.Context) {
	interval := time.Second / time.Duration(g.scenario.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.dispatch(ctx)
		}
	}
}

// LogStats reports the run's counters.
func (g *LoadGenerator) LogStats(logger *slog.Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()

	logger.Info("load generation finished",
		"requests", g.requests,
		"successes", g.successes,
		"denials", g.denials,
		"failures", g.failures,
		"open_loans", len(g.openLoans),
	)
}

func (g *LoadGenerator) dispatch(ctx context.Context) {
	weights := g.scenario.Weights
	total := weights.Borrow + weights.Return + weights.Query

	roll := rand.Intn(total) //nolint:gosec // load distribution only, no security use

	switch {
	case roll < weights.Borrow:
		g.borrowRandom(ctx)
	case roll < weights.Borrow+weights.Return:
		g.returnRandom(ctx)
	default:
		g.queryRandom(ctx)
	}
}

func (g *LoadGenerator) borrowRandom(ctx context.Context) {
	bookID := g.bookIDs[rand.Intn(len(g.bookIDs))]       //nolint:gosec
	borrowerID := g.borrowers[rand.Intn(len(g.borrowers))] //nolint:gosec
	loanType := []lending.LoanType{lending.TenDayLoan, lending.FiveDayLoan, lending.TwoDayLoan}[rand.Intn(3)] //nolint:gosec

	command := borrowbook.BuildCommand(bookID, borrowerID, loanType, time.Now().UTC())
	loan, _, err := g.borrowHandler.Handle(ctx, command)

	g.record(err)

	if err == nil {
		g.mu.Lock()
		g.openLoans = append(g.openLoans, loan)
		g.mu.Unlock()

		g.logger.Debug("borrowed", "loan_id", loan.ID, "book_id", bookID, "borrower_id", borrowerID)
	}
}

func (g *LoadGenerator) returnRandom(ctx context.Context) {
	g.mu.Lock()
	if len(g.openLoans) == 0 {
		g.mu.Unlock()
		return
	}

	idx := rand.Intn(len(g.openLoans)) //nolint:gosec
	loan := g.openLoans[idx]
	g.openLoans[idx] = g.openLoans[len(g.openLoans)-1]
	g.openLoans = g.openLoans[:len(g.openLoans)-1]
	g.mu.Unlock()

	command := returnbook.BuildCommand(loan.ID, loan.BorrowerID, time.Now().UTC())
	_, _, err := g.returnHandler.Handle(ctx, command)

	g.record(err)

	if err == nil {
		g.logger.Debug("returned", "loan_id", loan.ID, "book_id", loan.BookID)
	}
}

func (g *LoadGenerator) queryRandom(ctx context.Context) {
	borrowerID := g.borrowers[rand.Intn(len(g.borrowers))] //nolint:gosec

	var err error
	if rand.Intn(2) == 0 { //nolint:gosec
		bookID := g.bookIDs[rand.Intn(len(g.bookIDs))] //nolint:gosec
		_, err = g.eligibilityHandler.Handle(ctx, checkeligibility.BuildQuery(bookID, borrowerID, time.Now().UTC()))
	} else {
		_, err = g.loansHandler.Handle(ctx, loansbyborrower.BuildQuery(borrowerID, time.Now().UTC()))
	}

	g.record(err)
}

func (g *LoadGenerator) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests++

	switch {
	case err == nil:
		g.successes++
	case lending.IsBusinessError(err):
		g.denials++
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// The run was cut off mid-flight, not a failure worth counting.
	default:
		g.failures++
	}
}
