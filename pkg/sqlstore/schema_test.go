package sqlstore_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

var _ = Describe("Schema introspection", func() {
	var (
		ctx   context.Context
		store *sqlstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = seededStore(5*time.Second, 100)
	})

	Describe("TableNames", func() {
		It("lists every sample table", func() {
			names, err := store.TableNames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ConsistOf(
				"customers", "products", "orders", "order_items", "inventory_logs",
			))
		})
	})

	Describe("TableExists", func() {
		It("finds a sample table", func() {
			exists, err := store.TableExists(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("does not find a missing table", func() {
			exists, err := store.TableExists(ctx, "invoices")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("Table", func() {
		It("describes columns in declaration order with the row count", func() {
			info, err := store.Table(ctx, "customers")
			Expect(err).NotTo(HaveOccurred())

			Expect(info.Name).To(Equal("customers"))
			Expect(info.RowCount).To(Equal(15))
			Expect(info.Columns[0].Name).To(Equal("id"))
			Expect(info.Columns[0].PrimaryKey).To(BeTrue())

			var email *sqlstore.ColumnInfo
			for i := range info.Columns {
				if info.Columns[i].Name == "email" {
					email = &info.Columns[i]
				}
			}
			Expect(email).NotTo(BeNil())
			Expect(email.Nullable).To(BeFalse())
			Expect(email.Type).To(Equal("TEXT"))
		})

		It("returns UnknownTableError for a missing table", func() {
			_, err := store.Table(ctx, "invoices")
			Expect(err).To(HaveOccurred())

			var unknownErr *sqlstore.UnknownTableError
			Expect(errors.As(err, &unknownErr)).To(BeTrue())
			Expect(unknownErr.Table).To(Equal("invoices"))
		})
	})

	Describe("SchemaInfo", func() {
		It("covers the full sample schema", func() {
			schema, err := store.SchemaInfo(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(schema.Tables).To(HaveLen(5))
		})
	})

	Describe("SchemaText", func() {
		It("renders one block per table with column lines", func() {
			text, err := store.SchemaText(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(text).To(ContainSubstring("Table: customers (15 rows)"))
			Expect(text).To(ContainSubstring("Table: products (15 rows)"))
			Expect(text).To(ContainSubstring("Table: orders (100 rows)"))
			Expect(text).To(ContainSubstring("- email: TEXT (not null)"))
		})
	})

	Describe("Sample", func() {
		It("returns the requested number of rows", func() {
			result, err := store.Sample(ctx, "products", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RowCount).To(Equal(3))
			Expect(result.Columns).To(ContainElement("price"))
		})

		It("defaults the limit when it is not positive", func() {
			result, err := store.Sample(ctx, "products", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RowCount).To(Equal(5))
		})

		It("rejects a missing table", func() {
			_, err := store.Sample(ctx, "invoices", 5)

			var unknownErr *sqlstore.UnknownTableError
			Expect(errors.As(err, &unknownErr)).To(BeTrue())
		})
	})
})

var _ = Describe("Column statistics", func() {
	var (
		ctx   context.Context
		store *sqlstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = seededStore(5*time.Second, 100)
	})

	It("computes numeric min, max and avg for price", func() {
		stats, err := store.ColumnStatistics(ctx, "products")
		Expect(err).NotTo(HaveOccurred())

		var price *sqlstore.ColumnStats
		for i := range stats {
			if stats[i].Name == "price" {
				price = &stats[i]
			}
		}
		Expect(price).NotTo(BeNil())
		Expect(price.NullCount).To(BeZero())
		Expect(price.Min).To(HaveValue(BeNumerically("==", 8.99)))
		Expect(price.Max).To(HaveValue(BeNumerically("==", 1299.99)))
		Expect(price.Avg).To(HaveValue(BeNumerically(">", 0)))
	})

	It("leaves numeric fields nil for text columns", func() {
		stats, err := store.ColumnStatistics(ctx, "customers")
		Expect(err).NotTo(HaveOccurred())

		var name *sqlstore.ColumnStats
		for i := range stats {
			if stats[i].Name == "name" {
				name = &stats[i]
			}
		}
		Expect(name).NotTo(BeNil())
		Expect(name.Min).To(BeNil())
		Expect(name.Avg).To(BeNil())
		Expect(name.DistinctCount).To(Equal(15))
	})

	It("returns UnknownTableError for a missing table", func() {
		_, err := store.ColumnStatistics(ctx, "invoices")

		var unknownErr *sqlstore.UnknownTableError
		Expect(errors.As(err, &unknownErr)).To(BeTrue())
	})
})

var _ = Describe("DataQuality", func() {
	var (
		ctx   context.Context
		store *sqlstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = seededStore(5*time.Second, 100)
	})

	It("reports a fully unique primary key column", func() {
		metrics, err := store.DataQuality(ctx, "customers")
		Expect(err).NotTo(HaveOccurred())

		Expect(metrics.UniqueRatio).To(BeNumerically("==", 1))
		Expect(metrics.DuplicateCount).To(BeZero())
		Expect(metrics.Completeness).To(BeNumerically(">", 0))
		Expect(metrics.Completeness).To(BeNumerically("<=", 100))
	})

	It("counts nulls across all columns", func() {
		metrics, err := store.DataQuality(ctx, "orders")
		Expect(err).NotTo(HaveOccurred())

		// Most orders carry no notes, so the table has nulls.
		Expect(metrics.NullCount).To(BeNumerically(">", 0))
		Expect(metrics.Completeness).To(BeNumerically("<", 100))
	})
})
