package admin

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/i18n"
	"github.com/consultas-painel/pdfrg/internal/metrics"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		PageSize int   `json:"page_size"`
		Total    int64 `json:"total"`
	} `json:"pagination"`
}

func setupAdminHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{PdfRg: config.DefaultPdfRgConfig()}
	cfg.PdfRg.SummaryCacheSeconds = 0
	h := New(provider.NewContainerWithDB(cfg, db, nil, metrics.NewIsolated()))

	r := gin.New()
	admin := r.Group("/api/v1/admin", func(c *gin.Context) {
		c.Set("admin_id", uint(1))
		c.Next()
	})
	admin.GET("/pdf-rg/orders", h.GetAdminPdfRgOrders)
	admin.GET("/pdf-rg/orders/summary", h.GetAdminPdfRgSummary)
	admin.POST("/pdf-rg/orders", h.CreateAdminPdfRgOrder)
	admin.GET("/pdf-rg/orders/:id", h.GetAdminPdfRgOrder)
	admin.PUT("/pdf-rg/orders/:id/status", h.UpdateAdminPdfRgStatus)
	admin.GET("/pdf-rg/orders/:id/logs", h.GetAdminPdfRgStatusLogs)
	admin.DELETE("/pdf-rg/orders/:id", h.DeleteAdminPdfRgOrder)
	admin.GET("/wallets/:user_id", h.GetAdminUserWallet)
	admin.GET("/wallets/:user_id/transactions", h.GetAdminUserWalletTransactions)
	admin.POST("/wallets/:user_id/adjust", h.AdjustAdminUserWallet)
	return r, db
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) envelope {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	raw := []byte("{}")
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func createAdminOrder(t *testing.T, r *gin.Engine, body map[string]interface{}) uint {
	t.Helper()
	resp := serve(t, r, jsonRequest(t, http.MethodPost, "/api/v1/admin/pdf-rg/orders", body))
	if resp.StatusCode != 0 {
		t.Fatalf("admin create want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var result struct {
		Order struct {
			ID uint `json:"id"`
		} `json:"order"`
		Settlement *json.RawMessage `json:"settlement"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("unmarshal create result failed: %v", err)
	}
	if result.Settlement != nil && string(*result.Settlement) != "null" {
		t.Fatalf("admin created order should not settle, got %s", string(*result.Settlement))
	}
	return result.Order.ID
}

func TestAdminPdfRgStatusTransitionWithJSONDocument(t *testing.T) {
	r, db := setupAdminHandlerTest(t)
	id := createAdminOrder(t, r, map[string]interface{}{
		"user_id":    9,
		"cpf":        "123.456.789-00",
		"nome":       "João",
		"preco_pago": 30,
	})
	path := fmt.Sprintf("/api/v1/admin/pdf-rg/orders/%d/status", id)

	resp := serve(t, r, jsonRequest(t, http.MethodPut, path, map[string]interface{}{"status": "entregue"}))
	if resp.StatusCode != 400 {
		t.Fatalf("delivered without document want 400 got %d", resp.StatusCode)
	}

	resp = serve(t, r, jsonRequest(t, http.MethodPut, path, map[string]interface{}{"status": 9}))
	if resp.StatusCode != 400 {
		t.Fatalf("unknown status want 400 got %d", resp.StatusCode)
	}

	resp = serve(t, r, jsonRequest(t, http.MethodPut, path, map[string]interface{}{
		"status":          4,
		"document_base64": "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(testPDF),
		"document_name":   "rg.pdf",
	}))
	if resp.StatusCode != 0 {
		t.Fatalf("delivered with document want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}

	var order models.PdfRgOrder
	if err := db.First(&order, id).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order.Status != models.PdfRgStatusDelivered {
		t.Fatalf("status want delivered got %d", order.Status)
	}
	if !order.HasDeliveredDocument() || !strings.HasPrefix(*order.PdfEntregaNome, "pdf_rg_9_12345678900_") {
		t.Fatalf("unexpected delivered document name %v", order.PdfEntregaNome)
	}
	if order.Nome == nil || *order.Nome != "João" {
		t.Fatalf("other fields should stay untouched, got %v", order.Nome)
	}

	resp = serve(t, r, jsonRequest(t, http.MethodPut, path, map[string]interface{}{"status": "entregue"}))
	if resp.StatusCode != 0 {
		t.Fatalf("delivered again with stored document want 0 got %d", resp.StatusCode)
	}

	logs := serve(t, r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/admin/pdf-rg/orders/%d/logs", id), nil))
	var entries []models.PdfRgStatusLog
	if err := json.Unmarshal(logs.Data, &entries); err != nil {
		t.Fatalf("unmarshal logs failed: %v", err)
	}
	if len(entries) != 2 || entries[0].AdminID != 1 || entries[0].ToStatus != models.PdfRgStatusDelivered {
		t.Fatalf("unexpected status logs %+v", entries)
	}

	var notifications int64
	if err := db.Model(&models.UserNotification{}).Where("user_id = ?", 9).Count(&notifications).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if notifications != 2 {
		t.Fatalf("owner should be notified on each transition, got %d", notifications)
	}
}

func TestAdminPdfRgStatusTransitionWithMultipartFile(t *testing.T) {
	r, db := setupAdminHandlerTest(t)
	id := createAdminOrder(t, r, map[string]interface{}{"cpf": "98765432100"})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("status", "4"); err != nil {
		t.Fatalf("write status field failed: %v", err)
	}
	part, err := writer.CreateFormFile("file", "entrega.pdf")
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(testPDF); err != nil {
		t.Fatalf("write file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/admin/pdf-rg/orders/%d/status", id), body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp := serve(t, r, req)
	if resp.StatusCode != 0 {
		t.Fatalf("multipart transition want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var order models.PdfRgOrder
	if err := db.First(&order, id).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order.PdfEntregaNome == nil || !strings.HasPrefix(*order.PdfEntregaNome, "pdf_rg_anon_98765432100_") {
		t.Fatalf("unexpected document name %v", order.PdfEntregaNome)
	}
	if order.PdfEntregaBase64 == nil || !strings.HasPrefix(*order.PdfEntregaBase64, "data:application/pdf;base64,") {
		t.Fatalf("document should be stored as data url")
	}
}

func TestAdminPdfRgStatusTransitionMultipartReadFailure(t *testing.T) {
	r, db := setupAdminHandlerTest(t)
	id := createAdminOrder(t, r, map[string]interface{}{"cpf": "98765432100"})
	path := fmt.Sprintf("/api/v1/admin/pdf-rg/orders/%d/status", id)

	// 缺少 boundary 的 multipart 请求无法解析
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader("status=2"))
	req.Header.Set("Content-Type", "multipart/form-data")
	resp := serve(t, r, req)
	if resp.StatusCode != 400 || resp.Msg != i18n.T(i18n.DefaultLocale, "error.file_read_failed") {
		t.Fatalf("unreadable multipart want 400 file_read_failed got %d msg=%s", resp.StatusCode, resp.Msg)
	}

	// 未附带文件时仅变更状态
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("status", "2"); err != nil {
		t.Fatalf("write status field failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp = serve(t, r, req)
	if resp.StatusCode != 0 {
		t.Fatalf("multipart without file want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var order models.PdfRgOrder
	if err := db.First(&order, id).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order.Status != models.PdfRgStatusPaymentConfirmed || order.PdfEntregaNome != nil {
		t.Fatalf("unexpected order after transition: status=%d document=%v", order.Status, order.PdfEntregaNome)
	}
}

func TestAdminPdfRgListSummaryAndDelete(t *testing.T) {
	r, _ := setupAdminHandlerTest(t)
	first := createAdminOrder(t, r, map[string]interface{}{"user_id": 3, "cpf": "11111111111", "nome": "Ana"})
	createAdminOrder(t, r, map[string]interface{}{"user_id": 4, "cpf": "22222222222", "nome": "Bruno", "status": "em_confeccao"})

	list := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/pdf-rg/orders", nil))
	if list.Pagination.Total != 2 || list.Pagination.PageSize != 50 {
		t.Fatalf("admin list want total 2 page_size 50 got %d/%d", list.Pagination.Total, list.Pagination.PageSize)
	}
	list = serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/pdf-rg/orders?user_id=3&search=ana", nil))
	if list.Pagination.Total != 1 {
		t.Fatalf("filtered list want 1 got %d", list.Pagination.Total)
	}
	list = serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/pdf-rg/orders?user_id=x", nil))
	if list.StatusCode != 400 {
		t.Fatalf("invalid user filter want 400 got %d", list.StatusCode)
	}

	summary := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/pdf-rg/orders/summary", nil))
	var totals struct {
		Counts map[string]int64 `json:"counts"`
		Total  int64            `json:"total"`
	}
	if err := json.Unmarshal(summary.Data, &totals); err != nil {
		t.Fatalf("unmarshal summary failed: %v", err)
	}
	if totals.Total != 2 || totals.Counts["realizado"] != 1 || totals.Counts["em_confeccao"] != 1 {
		t.Fatalf("unexpected summary %+v", totals)
	}

	resp := serve(t, r, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/admin/pdf-rg/orders/%d", first), nil))
	if resp.StatusCode != 0 {
		t.Fatalf("delete want 0 got %d", resp.StatusCode)
	}
	resp = serve(t, r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/admin/pdf-rg/orders/%d", first), nil))
	if resp.StatusCode != 404 {
		t.Fatalf("deleted order want 404 got %d", resp.StatusCode)
	}
}

func TestAdminWalletAdjust(t *testing.T) {
	r, _ := setupAdminHandlerTest(t)

	resp := serve(t, r, jsonRequest(t, http.MethodPost, "/api/v1/admin/wallets/5/adjust", map[string]interface{}{
		"amount": "40.00",
		"pool":   "plan",
		"remark": "bonus",
	}))
	if resp.StatusCode != 0 {
		t.Fatalf("adjust want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}

	resp = serve(t, r, jsonRequest(t, http.MethodPost, "/api/v1/admin/wallets/5/adjust", map[string]interface{}{
		"amount":    "10.00",
		"operation": "subtract",
	}))
	if resp.StatusCode != 400 {
		t.Fatalf("main balance below zero want 400 got %d", resp.StatusCode)
	}

	resp = serve(t, r, jsonRequest(t, http.MethodPost, "/api/v1/admin/wallets/5/adjust", map[string]interface{}{"amount": "-1"}))
	if resp.StatusCode != 400 {
		t.Fatalf("non-positive amount want 400 got %d", resp.StatusCode)
	}

	wallet := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/wallets/5", nil))
	var account struct {
		Balance     string `json:"balance"`
		PlanBalance string `json:"plan_balance"`
	}
	if err := json.Unmarshal(wallet.Data, &account); err != nil {
		t.Fatalf("unmarshal wallet failed: %v", err)
	}
	if account.PlanBalance != "40.00" || account.Balance != "0.00" {
		t.Fatalf("balances want 0.00/40.00 got %s/%s", account.Balance, account.PlanBalance)
	}

	txns := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/wallets/5/transactions", nil))
	if txns.Pagination.Total != 1 {
		t.Fatalf("transactions want 1 got %d", txns.Pagination.Total)
	}
}

func TestAdjustRequestSignedDelta(t *testing.T) {
	cases := []struct {
		req   AdminAdjustUserWalletRequest
		delta string
		key   string
	}{
		{AdminAdjustUserWalletRequest{Amount: "10.50"}, "10.5", ""},
		{AdminAdjustUserWalletRequest{Amount: " 3 ", Operation: "SUBTRACT"}, "-3", ""},
		{AdminAdjustUserWalletRequest{Amount: "0"}, "0", "error.wallet_amount_invalid"},
		{AdminAdjustUserWalletRequest{Amount: "abc"}, "0", "error.wallet_amount_invalid"},
		{AdminAdjustUserWalletRequest{Amount: "5", Operation: "multiply"}, "0", "error.bad_request"},
	}
	for _, tc := range cases {
		delta, key := tc.req.signedDelta()
		if key != tc.key || delta.String() != tc.delta {
			t.Fatalf("signedDelta(%+v) want (%s,%q) got (%s,%q)", tc.req, tc.delta, tc.key, delta.String(), key)
		}
	}
}
