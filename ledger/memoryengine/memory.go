package memoryengine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/lending"
)

const (
	tableBooks   = "books"
	tableLoans   = "loans"
	tableJournal = "journal"

	indexID       = "id"
	indexBorrower = "borrower"
	indexBook     = "book"
)

// bookRecord wraps a book with a string ID field for memdb indexing.
type bookRecord struct {
	ID   string
	Book lending.Book
}

// loanRecord wraps a loan with string ID fields for memdb indexing.
type loanRecord struct {
	ID         string
	BorrowerID string
	BookID     string
	Loan       lending.Loan
}

// journalRecord wraps a journal entry with a synthetic ID for memdb indexing.
type journalRecord struct {
	ID    string
	Entry ledger.JournalEntry
}

// Store implements ledger.Store in memory.
type Store struct {
	db *memdb.MemDB
}

// NewStore creates an empty in-memory ledger store.
func NewStore() (*Store, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableBooks: {
				Name: tableBooks,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
			tableLoans: {
				Name: tableLoans,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexBorrower: {
						Name:    indexBorrower,
						Indexer: &memdb.StringFieldIndex{Field: "BorrowerID"},
					},
					indexBook: {
						Name:    indexBook,
						Indexer: &memdb.StringFieldIndex{Field: "BookID"},
					},
				},
			},
			tableJournal: {
				Name: tableJournal,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// InTransaction runs fn inside one memdb write transaction.
// memdb allows a single writer at a time, which serializes all command
// transactions; aborting discards every change of fn.
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context, tx ledger.Transaction) error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	txn := s.db.Txn(true)

	if fnErr := fn(ctx, transaction{txn: txn}); fnErr != nil {
		txn.Abort()
		return fnErr
	}

	txn.Commit()

	return nil
}

// transaction implements ledger.Transaction on one memdb write transaction.
type transaction struct {
	txn *memdb.Txn
}

// BookByID returns the book or lending.ErrBookNotFound.
func (t transaction) BookByID(_ context.Context, bookID uuid.UUID) (lending.Book, error) {
	record, err := t.bookRecordByID(bookID)
	if err != nil {
		return lending.Book{}, err
	}

	return record.Book, nil
}

// InsertBook adds a new catalog entry.
func (t transaction) InsertBook(_ context.Context, book lending.Book) error {
	return t.txn.Insert(tableBooks, &bookRecord{ID: book.ID.String(), Book: book})
}

// DeleteBook removes a book that has no unreturned loans.
func (t transaction) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	record, err := t.bookRecordByID(bookID)
	if err != nil {
		return err
	}

	activeLoans, countErr := t.CountActiveLoans(ctx, bookID)
	if countErr != nil {
		return countErr
	}

	if activeLoans > 0 {
		return lending.ErrBookHasActiveLoans
	}

	return t.txn.Delete(tableBooks, record)
}

// ReserveBookCopy decrements the book's available copies if at least one copy is available.
func (t transaction) ReserveBookCopy(_ context.Context, bookID uuid.UUID) error {
	record, err := t.bookRecordByID(bookID)
	if err != nil {
		return err
	}

	if record.Book.AvailableCopies <= 0 {
		return lending.ErrOutOfStock
	}

	updated := record.Book
	updated.AvailableCopies--

	return t.txn.Insert(tableBooks, &bookRecord{ID: updated.ID.String(), Book: updated})
}

// ReleaseBookCopy increments the book's available copies, capped at the total copy count.
func (t transaction) ReleaseBookCopy(_ context.Context, bookID uuid.UUID) error {
	record, err := t.bookRecordByID(bookID)
	if err != nil {
		return err
	}

	if record.Book.AvailableCopies >= record.Book.TotalCopies {
		return ledger.ErrReleaseExceedsTotalCopies
	}

	updated := record.Book
	updated.AvailableCopies++

	return t.txn.Insert(tableBooks, &bookRecord{ID: updated.ID.String(), Book: updated})
}

// CountActiveLoans returns the number of unreturned loans for the book.
func (t transaction) CountActiveLoans(_ context.Context, bookID uuid.UUID) (int, error) {
	iterator, err := t.txn.Get(tableLoans, indexBook, bookID.String())
	if err != nil {
		return 0, err
	}

	count := 0

	for raw := iterator.Next(); raw != nil; raw = iterator.Next() {
		if !raw.(*loanRecord).Loan.Returned {
			count++
		}
	}

	return count, nil
}

// LoanByID returns the loan or lending.ErrLoanNotFound.
func (t transaction) LoanByID(_ context.Context, loanID uuid.UUID) (lending.Loan, error) {
	raw, err := t.txn.First(tableLoans, indexID, loanID.String())
	if err != nil {
		return lending.Loan{}, err
	}

	if raw == nil {
		return lending.Loan{}, lending.ErrLoanNotFound
	}

	return raw.(*loanRecord).Loan, nil
}

// InsertLoan adds a new open loan.
func (t transaction) InsertLoan(_ context.Context, loan lending.Loan) error {
	record := &loanRecord{
		ID:         loan.ID.String(),
		BorrowerID: loan.BorrowerID.String(),
		BookID:     loan.BookID.String(),
		Loan:       loan,
	}

	return t.txn.Insert(tableLoans, record)
}

// FinishLoan flips the loan's returned flag exactly once.
func (t transaction) FinishLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error {
	raw, err := t.txn.First(tableLoans, indexID, loanID.String())
	if err != nil {
		return err
	}

	if raw == nil {
		return lending.ErrLoanNotFound
	}

	record := raw.(*loanRecord)

	if record.Loan.Returned {
		return lending.ErrAlreadyReturned
	}

	updated := record.Loan.Finish(returnedAt)

	return t.InsertLoan(ctx, updated)
}

// HasOverdueLoans reports whether the borrower holds any unreturned loan past its due date.
func (t transaction) HasOverdueLoans(_ context.Context, borrowerID uuid.UUID, asOf time.Time) (bool, error) {
	iterator, err := t.txn.Get(tableLoans, indexBorrower, borrowerID.String())
	if err != nil {
		return false, err
	}

	for raw := iterator.Next(); raw != nil; raw = iterator.Next() {
		if raw.(*loanRecord).Loan.IsOverdue(asOf) {
			return true, nil
		}
	}

	return false, nil
}

// LoansByBorrower returns the borrower's loans, oldest first.
func (t transaction) LoansByBorrower(_ context.Context, borrowerID uuid.UUID) ([]lending.Loan, error) {
	iterator, err := t.txn.Get(tableLoans, indexBorrower, borrowerID.String())
	if err != nil {
		return nil, err
	}

	loans := make([]lending.Loan, 0)

	for raw := iterator.Next(); raw != nil; raw = iterator.Next() {
		loans = append(loans, raw.(*loanRecord).Loan)
	}

	sort.Slice(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.Before(loans[j].BorrowedAt)
	})

	return loans, nil
}

// AppendJournalEntry appends an audit record to the lending journal.
func (t transaction) AppendJournalEntry(_ context.Context, entry ledger.JournalEntry) error {
	return t.txn.Insert(tableJournal, &journalRecord{ID: uuid.NewString(), Entry: entry})
}

// bookRecordByID fetches the raw book record or lending.ErrBookNotFound.
func (t transaction) bookRecordByID(bookID uuid.UUID) (*bookRecord, error) {
	raw, err := t.txn.First(tableBooks, indexID, bookID.String())
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, lending.ErrBookNotFound
	}

	return raw.(*bookRecord), nil
}
