package sqlrepository

import (
	"errors"
	"strings"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already registered")

type Repositories struct {
	Invoice  domain.InvoiceRepository
	Customer domain.CustomerRepository
	User     domain.UserRepository
}

func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Invoice:  NewInvoiceRepository(db, logger),
		Customer: NewCustomerRepository(db, logger),
		User:     NewUserRepository(db, logger),
	}
}

// MySQL error 1062 is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}

// likeEscape is portable across MySQL, Postgres and SQLite string literals,
// unlike a backslash.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern builds a case-insensitive LIKE argument for user search input.
// Wildcards typed by the user match literally.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}

// likeAny matches a likePattern argument against any of the columns.
func likeAny(columns ...string) string {
	clauses := make([]string, len(columns))
	for i, column := range columns {
		clauses[i] = column + " LIKE ? ESCAPE '" + likeEscape + "'"
	}
	return strings.Join(clauses, " OR ")
}

// textCast renders a column as text in the active SQL dialect.
func textCast(db *gorm.DB, column string) string {
	switch db.Dialector.Name() {
	case "postgres":
		return column + "::text"
	case "mysql":
		return "CAST(" + column + " AS CHAR)"
	default:
		return "CAST(" + column + " AS TEXT)"
	}
}
