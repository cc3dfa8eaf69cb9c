package invoice

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Export", func() {
	var (
		dir    string
		items  ItemBinding
		totals TotalsBinding
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		items = BindItems([][]string{
			{"4037278500762", "10", "5,00", "12,50", "ABC", "0,00", "19,00", "62,50",
				"Tornillo hexagonal", "90123456", "15.03.2024"},
		})
		totals = BindTotals([][]string{
			{"2,50", "62,50", "19,00%", "11,88", "76,88", "90123456", "15.03.2024"},
		})
	})

	Describe("ExportCSV", func() {
		var (
			itemsCSV string
			err      error
		)

		JustBeforeEach(func() {
			err = ExportCSV(dir, items, totals)
			if err == nil {
				data, readErr := os.ReadFile(filepath.Join(dir, "articulos.csv"))
				Expect(readErr).NotTo(HaveOccurred())
				itemsCSV = string(data)
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes both files", func() {
			Expect(filepath.Join(dir, "articulos.csv")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "totales.csv")).To(BeAnExistingFile())
		})

		It("starts with a UTF-8 byte order mark", func() {
			Expect(strings.HasPrefix(itemsCSV, "\xEF\xBB\xBF")).To(BeTrue())
		})

		It("writes the documented header row", func() {
			lines := strings.Split(strings.TrimPrefix(itemsCSV, "\xEF\xBB\xBF"), "\n")
			Expect(lines[0]).To(Equal("Nº Artículo,Posición,Cantidad,Precio Unitario (EUR),Código Producto,Descuento %,IVA %,Valor Neto (EUR),Descripción,Nº Factura,Fecha Factura"))
		})

		It("writes one row per record with converted values", func() {
			lines := strings.Split(strings.TrimPrefix(itemsCSV, "\xEF\xBB\xBF"), "\n")
			Expect(lines[1]).To(Equal("4037278500762,10,5,12.5,ABC,0,19,62.5,Tornillo hexagonal,90123456,2024-03-15"))
		})

		When("the binding is degraded", func() {
			BeforeEach(func() {
				items = BindItems([][]string{{"4037278500762", "10", "5,00"}})
			})

			It("writes the raw rows without a header", func() {
				lines := strings.Split(strings.TrimPrefix(itemsCSV, "\xEF\xBB\xBF"), "\n")
				Expect(lines[0]).To(Equal("4037278500762,10,\"5,00\""))
			})
		})
	})

	Describe("ExportXLSX", func() {
		It("writes one workbook with both sheets populated", func() {
			Expect(ExportXLSX(dir, items, totals)).To(Succeed())

			f, err := excelize.OpenFile(filepath.Join(dir, "gastos.xlsx"))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			header, err := f.GetCellValue("Artículos", "A1")
			Expect(err).NotTo(HaveOccurred())
			Expect(header).To(Equal("Nº Artículo"))

			net, err := f.GetCellValue("Artículos", "H2")
			Expect(err).NotTo(HaveOccurred())
			Expect(net).To(Equal("62.5"))

			total, err := f.GetCellValue("Totales", "E2")
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal("76.88"))
		})
	})
})
