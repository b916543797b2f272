package sqlstore_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

var _ = Describe("Seed", func() {
	var (
		ctx    context.Context
		dbPath string
	)

	BeforeEach(func() {
		ctx = context.Background()
		baseDir, err := os.MkdirTemp("", "datapilot-seed-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(baseDir)
		})
		dbPath = filepath.Join(baseDir, "datapilot.db")
	})

	It("creates and populates the sample database", func() {
		stats, err := sqlstore.Seed(ctx, dbPath, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).NotTo(BeNil())

		Expect(stats.Customers).To(Equal(15))
		Expect(stats.Products).To(Equal(15))
		Expect(stats.Orders).To(Equal(100))
		Expect(stats.OrderItems).To(BeNumerically(">=", 100))
		Expect(stats.InventoryLogs).To(BeNumerically(">", 0))

		store, err := sqlstore.Open(sqlstore.Config{Path: dbPath, QueryTimeout: 5 * time.Second})
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		result, err := store.Execute(ctx, "SELECT COUNT(*) AS n FROM orders")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows[0]["n"]).To(BeEquivalentTo(100))
	})

	It("is deterministic across runs", func() {
		first, err := sqlstore.Seed(ctx, dbPath, false)
		Expect(err).NotTo(HaveOccurred())

		second, err := sqlstore.Seed(ctx, dbPath, true)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})

	It("is a no-op when the database already has data", func() {
		_, err := sqlstore.Seed(ctx, dbPath, false)
		Expect(err).NotTo(HaveOccurred())

		stats, err := sqlstore.Seed(ctx, dbPath, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(BeNil())
	})

	It("seeds over an empty placeholder file", func() {
		Expect(os.WriteFile(dbPath, []byte{}, 0o644)).To(Succeed())

		stats, err := sqlstore.Seed(ctx, dbPath, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).NotTo(BeNil())
		Expect(stats.Customers).To(Equal(15))
	})

	It("creates missing parent directories", func() {
		nested := filepath.Join(filepath.Dir(dbPath), "data", "db", "datapilot.db")
		stats, err := sqlstore.Seed(ctx, nested, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).NotTo(BeNil())
	})
})
