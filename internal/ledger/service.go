package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cleared-dev/fire/internal/model"
)

// Dir is the ledger directory below the project root.
const Dir = "ledger"

const (
	transactionsFile = "transactions.csv"
	accountsFile     = "accounts.csv"
)

// Service holds the imported transactions and account snapshot of a project.
type Service struct {
	root       string
	txns       []model.Transaction
	keys       map[string]bool
	statements map[string]bool
	accounts   []model.Account
}

// AppendResult reports what Append did with a statement.
type AppendResult struct {
	Added           int
	Duplicates      int
	AlreadyImported bool
}

// Load reads the ledger below a project root. Missing files mean an empty ledger.
func Load(root string) (*Service, error) {
	s := &Service{
		root:       root,
		keys:       make(map[string]bool),
		statements: make(map[string]bool),
	}

	txns, err := readFile(s.path(transactionsFile), ReadTransactions)
	if err != nil {
		return nil, err
	}
	for i, key := range occurrenceKeys(txns) {
		s.index(txns[i], key)
	}
	s.txns = txns

	if s.accounts, err = readFile(s.path(accountsFile), ReadAccounts); err != nil {
		return nil, err
	}
	return s, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	items, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return items, nil
}

// All returns every transaction in import order.
func (s *Service) All() []model.Transaction {
	return s.txns
}

// Accounts returns the account snapshot.
func (s *Service) Accounts() []model.Account {
	return s.accounts
}

// HasStatement reports whether transactions of statement id were imported.
func (s *Service) HasStatement(id string) bool {
	return s.statements[id]
}

// Append validates a statement, appends its new transactions to
// transactions.csv and updates the account snapshot. A statement already
// in the ledger is skipped, as is any transaction whose key is known.
// Identical entries inside one statement are distinct bookings and are all
// kept.
//
// The account snapshot is written first. If appending the transactions
// then fails, the statement is still unknown and a later import retries it.
func (s *Service) Append(stmt *model.Statement) (AppendResult, error) {
	if s.HasStatement(stmt.ID) {
		return AppendResult{AlreadyImported: true}, nil
	}

	if verrs := ValidateStatement(stmt); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return AppendResult{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	var res AppendResult
	var fresh []model.Transaction
	var freshKeys []string
	for i, key := range occurrenceKeys(stmt.Transactions) {
		if s.keys[key] {
			res.Duplicates++
			continue
		}
		fresh = append(fresh, stmt.Transactions[i])
		freshKeys = append(freshKeys, key)
	}

	prev := slices.Clone(s.accounts)
	s.upsertAccount(stmt.Account)
	if err := s.saveAccounts(); err != nil {
		s.accounts = prev
		return AppendResult{}, err
	}

	if err := s.appendFile(fresh); err != nil {
		return AppendResult{}, err
	}
	for i, t := range fresh {
		s.index(t, freshKeys[i])
	}
	s.txns = append(s.txns, fresh...)
	res.Added = len(fresh)
	return res, nil
}

func (s *Service) index(t model.Transaction, key string) {
	s.keys[key] = true
	s.statements[t.StatementID] = true
}

// occurrenceKeys numbers transactions that share a DedupKey in list order,
// so the second of two identical bookings gets its own key.
func occurrenceKeys(txns []model.Transaction) []string {
	seen := make(map[string]int, len(txns))
	keys := make([]string, len(txns))
	for i, t := range txns {
		k := t.DedupKey()
		seen[k]++
		keys[i] = k + "/" + strconv.Itoa(seen[k])
	}
	return keys
}

// upsertAccount takes bank data and balance from the latest import and
// keeps the owner's settings of a known account.
func (s *Service) upsertAccount(a model.Account) {
	for i, known := range s.accounts {
		if known.IBAN != a.IBAN {
			continue
		}
		a.Active = known.Active
		a.CustomName = known.CustomName
		a.Role = known.Role
		s.accounts[i] = a
		return
	}
	s.accounts = append(s.accounts, a)
}

func (s *Service) appendFile(txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	path := s.path(transactionsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, txns); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

func (s *Service) saveAccounts() error {
	path := s.path(accountsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

func (s *Service) path(name string) string {
	return filepath.Join(s.root, Dir, name)
}
