package invoice

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/acervera/expenditure-control/internal/extract"
)

var _ = Describe("RawTables", func() {
	var tables RawTables

	BeforeEach(func() {
		tables = RawTables{}
	})

	Describe("AppendPages", func() {
		When("a page declares a full header", func() {
			BeforeEach(func() {
				tables.AppendPages([]extract.PageData{{
					Header: extract.Header{
						InvoiceNumber: "90123456",
						InvoiceDate:   time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
					},
					ItemRows: [][]string{
						{"4037278500762", "10", "5,00", "12,50", "ABC", "0,00", "19,00", "62,50", "Tornillo hexagonal"},
					},
					TotalRows: [][]string{
						{"2,50", "62,50", "19,00%", "11,88", "76,88"},
					},
				}})
			})

			It("stamps the header onto every row", func() {
				Expect(tables.Items).To(HaveLen(1))
				Expect(tables.Items[0][9]).To(Equal("90123456"))
				Expect(tables.Items[0][10]).To(Equal("15.03.2024"))

				Expect(tables.Totals).To(HaveLen(1))
				Expect(tables.Totals[0][5]).To(Equal("90123456"))
				Expect(tables.Totals[0][6]).To(Equal("15.03.2024"))
			})
		})

		When("a continuation page declares no header", func() {
			BeforeEach(func() {
				tables.AppendPages([]extract.PageData{
					{
						Header: extract.Header{
							InvoiceNumber: "90123456",
							InvoiceDate:   time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
						},
					},
					{
						ItemRows: [][]string{
							{"4037278500762", "10", "5,00", "12,50", "ABC", "0,00", "19,00", "62,50", "Tornillo hexagonal"},
						},
					},
				})
			})

			It("inherits the header from the earlier page", func() {
				Expect(tables.Items).To(HaveLen(1))
				Expect(tables.Items[0][9]).To(Equal("90123456"))
				Expect(tables.Items[0][10]).To(Equal("15.03.2024"))
			})
		})

		When("no page declares a header", func() {
			BeforeEach(func() {
				tables.AppendPages([]extract.PageData{{
					ItemRows: [][]string{
						{"4037278500762", "10", "5,00", "12,50", "ABC", "0,00", "19,00", "62,50", "Tornillo hexagonal"},
					},
				}})
			})

			It("stamps empty header fields", func() {
				Expect(tables.Items[0][9]).To(BeEmpty())
				Expect(tables.Items[0][10]).To(BeEmpty())
			})
		})
	})
})

var _ = Describe("BindItems", func() {
	When("the rows match the documented width", func() {
		var binding ItemBinding

		BeforeEach(func() {
			binding = BindItems([][]string{
				{"4037278500762", "10", "5,00", "12,50", "ABC", "0,00", "19,00", "62,50",
					"Tornillo hexagonal", "90123456", "15.03.2024"},
			})
		})

		It("binds the documented column names", func() {
			Expect(binding.Bound).To(BeTrue())
			Expect(binding.Columns).To(Equal(ItemColumns))
			Expect(binding.Errors).To(BeEmpty())
		})

		It("produces typed records", func() {
			Expect(binding.Records).To(HaveLen(1))
			record := binding.Records[0]
			Expect(record.ItemNumber).To(Equal("4037278500762"))
			Expect(record.Position).To(Equal(10))
			Expect(record.Quantity.String()).To(Equal("5"))
			Expect(record.UnitPrice.String()).To(Equal("12.5"))
			Expect(record.ProductCode).To(Equal("ABC"))
			Expect(record.DiscountPct.IsZero()).To(BeTrue())
			Expect(record.TaxPct.String()).To(Equal("19"))
			Expect(record.NetValue.String()).To(Equal("62.5"))
			Expect(record.Description).To(Equal("Tornillo hexagonal"))
			Expect(record.InvoiceNumber).To(Equal("90123456"))
			Expect(record.InvoiceDate).To(Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a row has an unexpected width", func() {
		var binding ItemBinding

		BeforeEach(func() {
			binding = BindItems([][]string{
				{"4037278500762", "10", "5,00"},
			})
		})

		It("degrades to ordinal raw rows", func() {
			Expect(binding.Bound).To(BeFalse())
			Expect(binding.Columns).To(BeEmpty())
			Expect(binding.Records).To(BeEmpty())
			Expect(binding.Raw).To(HaveLen(1))
		})
	})

	When("a numeric column contains a malformed numeral", func() {
		var binding ItemBinding

		BeforeEach(func() {
			binding = BindItems([][]string{
				{"4037278500762", "10", "5,00", "12,50", "ABC", "0,00", "19,00", "62,50",
					"Tornillo hexagonal", "90123456", "15.03.2024"},
				{"4037278500763", "20", "banana", "9,00", "DEF", "0,00", "19,00", "18,00",
					"Tuerca M8", "90123456", "15.03.2024"},
			})
		})

		It("reports the column by name", func() {
			Expect(binding.Errors).To(HaveLen(1))
			Expect(binding.Errors[0].Column).To(Equal("Cantidad"))
		})

		It("still converts the other columns", func() {
			Expect(binding.Bound).To(BeTrue())
			Expect(binding.Records).To(HaveLen(2))
			Expect(binding.Records[1].UnitPrice.String()).To(Equal("9"))
			Expect(binding.Records[1].NetValue.String()).To(Equal("18"))
		})
	})

	When("there are no rows", func() {
		It("binds an empty table", func() {
			binding := BindItems(nil)
			Expect(binding.Bound).To(BeTrue())
			Expect(binding.Records).To(BeEmpty())
		})
	})
})

var _ = Describe("BindTotals", func() {
	When("the rows match the documented width", func() {
		var binding TotalsBinding

		BeforeEach(func() {
			binding = BindTotals([][]string{
				{"2,50", "62,50", "19,00%", "11,88", "76,88", "90123456", "15.03.2024"},
			})
		})

		It("binds the documented column names", func() {
			Expect(binding.Bound).To(BeTrue())
			Expect(binding.Columns).To(Equal(TotalsColumns))
			Expect(binding.Errors).To(BeEmpty())
		})

		It("produces typed records with the percent suffix stripped", func() {
			Expect(binding.Records).To(HaveLen(1))
			record := binding.Records[0]
			Expect(record.Shipping.String()).To(Equal("2.5"))
			Expect(record.NetValue.String()).To(Equal("62.5"))
			Expect(record.TaxPct.String()).To(Equal("19"))
			Expect(record.TaxAmount.String()).To(Equal("11.88"))
			Expect(record.TotalAmount.String()).To(Equal("76.88"))
			Expect(record.InvoiceNumber).To(Equal("90123456"))
		})
	})

	When("a row has an unexpected width", func() {
		It("degrades to ordinal raw rows", func() {
			binding := BindTotals([][]string{{"2,50", "62,50"}})
			Expect(binding.Bound).To(BeFalse())
			Expect(binding.Records).To(BeEmpty())
			Expect(binding.Raw).To(HaveLen(1))
		})
	})
})
