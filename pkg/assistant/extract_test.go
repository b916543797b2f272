package assistant_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/datapilotco/datapilot/pkg/assistant"
)

var _ = Describe("DefaultExtractor", func() {
	var extractor assistant.DefaultExtractor

	Context("with JSON output", func() {
		It("extracts sql and explanation from a bare object", func() {
			ex, err := extractor.Extract(`{"sql": "SELECT 1", "explanation": "the number one"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT 1"))
			Expect(ex.Explanation).To(Equal("the number one"))
		})

		It("finds the object inside surrounding prose", func() {
			raw := "Here is your query:\n{\"sql\": \"SELECT name FROM customers\", \"explanation\": \"names\"}\nEnjoy!"
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT name FROM customers"))
		})

		It("finds the object inside a fenced json block", func() {
			raw := "```json\n{\"sql\": \"SELECT 2\", \"explanation\": \"two\"}\n```"
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT 2"))
		})

		It("skips objects without a sql key", func() {
			raw := `{"note": "context"} {"sql": "SELECT 3"}`
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT 3"))
		})
	})

	Context("with a fenced sql block", func() {
		It("extracts the statement", func() {
			raw := "Sure:\n```sql\nSELECT * FROM orders\n```"
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT * FROM orders"))
			Expect(ex.Explanation).To(BeEmpty())
		})

		It("handles uppercase fence labels", func() {
			raw := "```SQL\nSELECT id FROM products\n```"
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT id FROM products"))
		})
	})

	Context("with a bare statement", func() {
		It("takes the first SELECT line through the semicolon", func() {
			raw := "The query you want is:\nSELECT name FROM customers WHERE country = 'UK';\nLet me know if that helps."
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("SELECT name FROM customers WHERE country = 'UK';"))
		})

		It("takes a multi-line statement without a semicolon", func() {
			raw := "select id\nfrom orders\nwhere status = 'shipped'"
			ex, err := extractor.Extract(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SQL).To(Equal("select id\nfrom orders\nwhere status = 'shipped'"))
		})
	})

	Context("with unusable output", func() {
		It("returns a parse error for prose", func() {
			_, err := extractor.Extract("I don't know how to answer that.")

			var parseErr *assistant.ResponseParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})

		It("returns a parse error for an empty response", func() {
			_, err := extractor.Extract("")
			Expect(err).To(HaveOccurred())
		})
	})
})
