package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

// seededStore opens an in-memory database populated with the sample
// dataset. The pool is pinned to one connection so every query sees the
// same memory database.
func seededStore(timeout time.Duration, maxRows int) *sqlstore.Store {
	db, err := sql.Open("sqlite3", ":memory:")
	Expect(err).NotTo(HaveOccurred())
	db.SetMaxOpenConns(1)
	DeferCleanup(func() {
		_ = db.Close()
	})

	stats, err := sqlstore.SeedDB(context.Background(), db)
	Expect(err).NotTo(HaveOccurred())
	Expect(stats).NotTo(BeNil())

	return sqlstore.NewWithDB(db, timeout, maxRows)
}

var _ = Describe("Execute", func() {
	var store *sqlstore.Store

	BeforeEach(func() {
		store = seededStore(5*time.Second, 100)
	})

	It("returns rows with column order preserved", func() {
		result, err := store.Execute(context.Background(), "SELECT name, email, country FROM customers ORDER BY id")
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Columns).To(Equal([]string{"name", "email", "country"}))
		Expect(result.RowCount).To(Equal(15))
		Expect(result.Rows).To(HaveLen(result.RowCount))
		Expect(result.Rows[0]["name"]).To(Equal("John Smith"))
	})

	It("reports elapsed time", func() {
		result, err := store.Execute(context.Background(), "SELECT COUNT(*) AS n FROM orders")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Elapsed).To(BeNumerically(">", 0))
		Expect(result.ElapsedMs()).To(BeNumerically(">", 0))
	})

	It("returns an empty row slice when nothing matches", func() {
		result, err := store.Execute(context.Background(), "SELECT * FROM customers WHERE country = 'Atlantis'")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows).NotTo(BeNil())
		Expect(result.Rows).To(BeEmpty())
		Expect(result.RowCount).To(BeZero())
	})

	It("caps the row count at the configured maximum", func() {
		capped := seededStore(5*time.Second, 10)
		result, err := capped.Execute(context.Background(), "SELECT * FROM orders")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RowCount).To(Equal(10))
	})

	It("keeps an explicit LIMIT smaller than the cap", func() {
		result, err := store.Execute(context.Background(), "SELECT * FROM orders LIMIT 3")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RowCount).To(Equal(3))
	})

	It("rejects unsafe statements before touching the database", func() {
		_, err := store.Execute(context.Background(), "DELETE FROM customers")
		Expect(err).To(HaveOccurred())

		var unsafeErr *sqlstore.UnsafeQueryError
		Expect(errors.As(err, &unsafeErr)).To(BeTrue())

		result, err := store.Execute(context.Background(), "SELECT COUNT(*) AS n FROM customers")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows[0]["n"]).To(BeEquivalentTo(15))
	})

	It("maps database rejections to a syntax error", func() {
		_, err := store.Execute(context.Background(), "SELECT * FROM no_such_table")
		Expect(err).To(HaveOccurred())

		var syntaxErr *sqlstore.QuerySyntaxError
		Expect(errors.As(err, &syntaxErr)).To(BeTrue())
	})

	It("aggregates totals per customer", func() {
		query := `SELECT c.name, SUM(o.total_amount) AS total_spent
			FROM customers c JOIN orders o ON o.customer_id = c.id
			GROUP BY c.id ORDER BY total_spent DESC LIMIT 10`
		result, err := store.Execute(context.Background(), query)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RowCount).To(BeNumerically("<=", 10))
		Expect(result.Columns).To(Equal([]string{"name", "total_spent"}))
	})
})

var _ = Describe("Execute with a mocked pool", func() {
	It("maps a deadline overrun to a timeout error", func() {
		db, mock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		mock.ExpectQuery("SELECT").WillReturnError(context.DeadlineExceeded)

		store := sqlstore.NewWithDB(db, 50*time.Millisecond, 0)
		_, err = store.Execute(context.Background(), "SELECT * FROM customers")
		Expect(err).To(HaveOccurred())

		var timeoutErr *sqlstore.QueryTimeoutError
		Expect(errors.As(err, &timeoutErr)).To(BeTrue())
		Expect(timeoutErr.Timeout).To(Equal(50 * time.Millisecond))
	})

	It("passes cancellation through untouched", func() {
		db, mock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		mock.ExpectQuery("SELECT").WillReturnError(context.Canceled)

		store := sqlstore.NewWithDB(db, 0, 0)
		_, err = store.Execute(context.Background(), "SELECT 1")
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("appends the row cap as a LIMIT clause", func() {
		db, mock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		mock.ExpectQuery(`SELECT \* FROM customers LIMIT 25`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		store := sqlstore.NewWithDB(db, 0, 25)
		result, err := store.Execute(context.Background(), "SELECT * FROM customers;")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RowCount).To(Equal(1))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})
})
