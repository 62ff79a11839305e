package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/consultas-painel/pdfrg/internal/cache"
	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPdfRgOrderServiceTest(t *testing.T) (*PdfRgOrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pdf_rg_order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PdfRgOrder{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPdfRgOrderService(repository.NewPdfRgOrderRepository(db), config.PdfRgConfig{}), db
}

func TestPdfRgOrderServiceCreateNormalizesInput(t *testing.T) {
	svc, _ := setupPdfRgOrderServiceTest(t)
	userID := uint(7)

	order, err := svc.Create(context.Background(), PdfRgOrderInput{
		UserID:           &userID,
		ModuleID:         "12",
		CPF:              "123.456.789-00",
		Nome:             "  Maria Silva ",
		DtNascimento:     "",
		FiliacaoMae:      "   ",
		PrecoPago:        "29,90",
		DescontoAplicado: "-5",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.ID == 0 {
		t.Fatalf("expected generated id")
	}

	stored, err := svc.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.CPF != "12345678900" {
		t.Fatalf("want cpf 12345678900 got %s", stored.CPF)
	}
	if stored.Nome == nil || *stored.Nome != "Maria Silva" {
		t.Fatalf("unexpected nome: %v", stored.Nome)
	}
	if stored.DtNascimento != nil || stored.FiliacaoMae != nil || stored.Naturalidade != nil {
		t.Fatalf("expected empty optional fields to be stored as NULL")
	}
	if stored.Status != models.PdfRgStatusCreated || stored.QRPlan != "1m" {
		t.Fatalf("unexpected defaults: status=%d qr=%s", stored.Status, stored.QRPlan)
	}
	if stored.ModuleID != 12 {
		t.Fatalf("unexpected module id: %d", stored.ModuleID)
	}
	if stored.PrecoPago.String() != "29.90" || stored.DescontoAplicado.String() != "0.00" {
		t.Fatalf("unexpected amounts: preco=%s desconto=%s", stored.PrecoPago, stored.DescontoAplicado)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be stamped")
	}
}

func TestPdfRgOrderServiceCreateRequiresCPF(t *testing.T) {
	svc, db := setupPdfRgOrderServiceTest(t)

	_, err := svc.Create(context.Background(), PdfRgOrderInput{CPF: "..--", Nome: "Sem CPF"})
	if !errors.Is(err, ErrPdfRgCPFRequired) {
		t.Fatalf("want ErrPdfRgCPFRequired got %v", err)
	}
	var total int64
	if err := db.Model(&models.PdfRgOrder{}).Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected nothing persisted, got %d rows", total)
	}
}

func TestPdfRgOrderServiceCreateInvalidNumbersFallBackToZero(t *testing.T) {
	svc, _ := setupPdfRgOrderServiceTest(t)

	order, err := svc.Create(context.Background(), PdfRgOrderInput{CPF: "11122233344", ModuleID: "abc", PrecoPago: "dez"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.ModuleID != 0 || !order.PrecoPago.Decimal.IsZero() {
		t.Fatalf("expected zero fallbacks, got module=%d preco=%s", order.ModuleID, order.PrecoPago)
	}
}

func TestPdfRgOrderServiceListAndCount(t *testing.T) {
	svc, _ := setupPdfRgOrderServiceTest(t)
	ctx := context.Background()
	for _, cpf := range []string{"11111111111", "22212322222", "33333333333", "44444444123"} {
		if _, err := svc.Create(ctx, PdfRgOrderInput{CPF: cpf, Nome: "Cliente " + cpf[:3]}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	filter := repository.PdfRgOrderListFilter{Search: "123"}
	orders, err := svc.List(filter)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	total, err := svc.Count(filter)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if len(orders) != 2 || total != 2 {
		t.Fatalf("want 2 matches got list=%d count=%d", len(orders), total)
	}
	if orders[0].ID < orders[1].ID {
		t.Fatalf("expected id desc ordering")
	}

	page, err := svc.List(repository.PdfRgOrderListFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list page failed: %v", err)
	}
	if len(page) != 2 || page[0].CPF != "33333333333" || page[1].CPF != "22212322222" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestPdfRgOrderServiceUpdateStatus(t *testing.T) {
	svc, _ := setupPdfRgOrderServiceTest(t)
	ctx := context.Background()
	order, err := svc.Create(ctx, PdfRgOrderInput{CPF: "12345678900", Nome: "Ana"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.UpdateStatus(ctx, order.ID, models.PdfRgStatus(9), nil); !errors.Is(err, ErrPdfRgInvalidStatus) {
		t.Fatalf("want ErrPdfRgInvalidStatus got %v", err)
	}
	if err := svc.UpdateStatus(ctx, order.ID+100, models.PdfRgStatusInProduction, nil); !errors.Is(err, ErrPdfRgOrderNotFound) {
		t.Fatalf("want ErrPdfRgOrderNotFound got %v", err)
	}

	payload := "data:application/pdf;base64,JVBERi0="
	name := "pdf_rg_anon_12345678900_20260101000000.pdf"
	if err := svc.UpdateStatus(ctx, order.ID, models.PdfRgStatusDelivered, &models.DeliveredDocument{Base64: &payload, Name: &name}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	stored, err := svc.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != models.PdfRgStatusDelivered {
		t.Fatalf("unexpected status: %d", stored.Status)
	}
	if stored.PdfEntregaNome == nil || *stored.PdfEntregaNome != name || stored.PdfEntregaBase64 == nil || *stored.PdfEntregaBase64 != payload {
		t.Fatalf("delivered document not persisted")
	}
	if stored.Nome == nil || *stored.Nome != "Ana" {
		t.Fatalf("unrelated fields must stay untouched")
	}
}

func TestPdfRgOrderServiceDeleteAndSummary(t *testing.T) {
	svc, _ := setupPdfRgOrderServiceTest(t)
	ctx := context.Background()
	first, err := svc.Create(ctx, PdfRgOrderInput{CPF: "11111111111"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, PdfRgOrderInput{CPF: "22222222222", Status: models.PdfRgStatusInProduction}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	summary, err := svc.Summary(ctx, nil)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Total != 2 || summary.Counts["realizado"] != 1 || summary.Counts["em_confeccao"] != 1 || summary.Counts["entregue"] != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, ErrPdfRgOrderNotFound) {
		t.Fatalf("want ErrPdfRgOrderNotFound got %v", err)
	}
	if _, err := svc.Get(first.ID); !errors.Is(err, ErrPdfRgOrderNotFound) {
		t.Fatalf("want ErrPdfRgOrderNotFound got %v", err)
	}
}

type memorySummaryStore struct {
	entries     map[uint]*cache.PdfRgSummary
	invalidated []uint
}

func (m *memorySummaryStore) Get(_ context.Context, userID uint) (*cache.PdfRgSummary, bool, error) {
	summary, ok := m.entries[userID]
	return summary, ok, nil
}

func (m *memorySummaryStore) Set(_ context.Context, userID uint, summary *cache.PdfRgSummary, _ time.Duration) error {
	m.entries[userID] = summary
	return nil
}

func (m *memorySummaryStore) Invalidate(_ context.Context, userID uint) error {
	m.invalidated = append(m.invalidated, userID)
	delete(m.entries, 0)
	delete(m.entries, userID)
	return nil
}

func TestPdfRgOrderServiceSummaryCachesPerUser(t *testing.T) {
	dsn := fmt.Sprintf("file:pdf_rg_summary_cache_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PdfRgOrder{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	store := &memorySummaryStore{entries: map[uint]*cache.PdfRgSummary{}}
	svc := NewPdfRgOrderService(repository.NewPdfRgOrderRepository(db), config.PdfRgConfig{SummaryCacheSeconds: 60})
	svc.summaries = store
	ctx := context.Background()

	owner := uint(5)
	owned, err := svc.Create(ctx, PdfRgOrderInput{UserID: &owner, CPF: "11111111111"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, PdfRgOrderInput{CPF: "22222222222"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(store.invalidated) != 2 || store.invalidated[0] != owner || store.invalidated[1] != 0 {
		t.Fatalf("unexpected invalidations: %v", store.invalidated)
	}

	mine, err := svc.Summary(ctx, &owner)
	if err != nil || mine.Total != 1 {
		t.Fatalf("user summary want 1 got %+v err=%v", mine, err)
	}
	all, err := svc.Summary(ctx, nil)
	if err != nil || all.Total != 2 {
		t.Fatalf("global summary want 2 got %+v err=%v", all, err)
	}
	if _, ok := store.entries[owner]; !ok {
		t.Fatalf("user summary should be cached under its own key")
	}

	// 绕过服务写入，缓存命中时不可见
	if err := db.Create(&models.PdfRgOrder{UserID: &owner, CPF: "33333333333", QRPlan: "1m", Status: models.PdfRgStatusCreated}).Error; err != nil {
		t.Fatalf("insert order failed: %v", err)
	}
	cached, err := svc.Summary(ctx, &owner)
	if err != nil || cached.Total != 1 {
		t.Fatalf("cached user summary want 1 got %+v err=%v", cached, err)
	}

	if err := svc.UpdateStatus(ctx, owned.ID, models.PdfRgStatusPaymentConfirmed, nil); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if last := store.invalidated[len(store.invalidated)-1]; last != owner {
		t.Fatalf("status change should invalidate owner %d, got %d", owner, last)
	}
	fresh, err := svc.Summary(ctx, &owner)
	if err != nil || fresh.Total != 2 || fresh.Counts["pagamento_confirmado"] != 1 {
		t.Fatalf("fresh user summary unexpected: %+v err=%v", fresh, err)
	}

	if err := svc.Delete(ctx, owned.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if last := store.invalidated[len(store.invalidated)-1]; last != owner {
		t.Fatalf("delete should invalidate owner %d, got %d", owner, last)
	}
}
