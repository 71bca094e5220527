package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
)

type CustomerController struct {
	Store *store.Store
}

func NewCustomerController(s *store.Store) *CustomerController {
	return &CustomerController{Store: s}
}

// GetAllCustomers -> the derived directory, most recent visit first.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Customer directory", cc.Store.Customers())
}

// GetCustomerByPhone -> GET /customers/:phone_number
func (cc *CustomerController) GetCustomerByPhone(c *gin.Context) {
	phone := c.Param("phone_number")
	customer, ok := cc.Store.CustomerByPhone(phone)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("customer %s not found", phone))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// UpdateNotes -> PATCH /customers/:phone_number/notes (admin)
func (cc *CustomerController) UpdateNotes(c *gin.Context) {
	phone := c.Param("phone_number")
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actor, _ := cc.Store.UserByUsername(c.GetString("username"))
	if err := cc.Store.UpdateCustomerNotes(phone, body.Notes, actor); err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notes updated", gin.H{"phoneNumber": phone})
}

// ExportCSV -> GET /customers/export, the tabular snapshot as CSV.
func (cc *CustomerController) ExportCSV(c *gin.Context) {
	rows := cc.Store.ExportAll()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("customers_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF -> GET /customers/export-pdf, same snapshot as a PDF table.
func (cc *CustomerController) ExportPDF(c *gin.Context) {
	rows := cc.Store.ExportAll()

	pdf := fpdf.New("L", "mm", "A4", "")
	// cp1251 so the Cyrillic headers and names survive
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("База клиентов"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := []float64{70, 45, 30, 45, 85}
	pdf.SetFont("Helvetica", "B", 10)
	for i, col := range rows[0] {
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows[1:] {
		for i, col := range row {
			pdf.CellFormat(widths[i], 7, tr(col), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("customers_%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
