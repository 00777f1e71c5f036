package inventory_test

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appinv "github.com/jdvalencia/fieldops-api/internal/application/inventory"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia.
//
// Guardan valores (no punteros) y devuelven copias en los Get*: así una
// mutación de dominio que falla antes de Update/UpdateProjection no queda
// persistida, igual que con el rollback real. El fakeTxRunner invoca la
// función con los mismos fakes; los tests verifican semántica del caso de
// uso, no aislamiento de BD.
// ──────────────────────────────────────────────────────────────────────────────

const (
	orgA  = "org-a"
	orgB  = "org-b"
	user1 = "user-1"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeStore struct {
	items      map[string]entity.InventoryItem
	itemOrder  []string
	txs        []entity.InventoryTransaction
	allocs     map[string]entity.InventoryAllocation
	orders     map[string]entity.InventoryPurchaseOrder
	counts     map[string]entity.InventoryCount
	countLines map[string][]entity.InventoryCountItem
	alerts     map[string]entity.InventoryStockAlert
	alertOrder []string
	suppliers  map[string]entity.Supplier
}

func newStore() *fakeStore {
	return &fakeStore{
		items:      map[string]entity.InventoryItem{},
		allocs:     map[string]entity.InventoryAllocation{},
		orders:     map[string]entity.InventoryPurchaseOrder{},
		counts:     map[string]entity.InventoryCount{},
		countLines: map[string][]entity.InventoryCountItem{},
		alerts:     map[string]entity.InventoryStockAlert{},
		suppliers:  map[string]entity.Supplier{},
	}
}

// seedItem inserta un ítem consistente (OnHand = Allocated + Available).
func (s *fakeStore) seedItem(id, code, onHand, reorderLevel string) *entity.InventoryItem {
	oh := dec(onHand)
	item := entity.InventoryItem{
		ID:                id,
		OrganizationID:    orgA,
		Code:              code,
		Name:              "Ítem " + code,
		QuantityOnHand:    oh,
		QuantityAvailable: oh,
		ReorderLevel:      dec(reorderLevel),
		Status:            entity.ItemStatusInStock,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	s.items[id] = item
	s.itemOrder = append(s.itemOrder, id)
	out := item
	return &out
}

func (s *fakeStore) seedSupplier(id string) {
	s.suppliers[id] = entity.Supplier{
		ID:             id,
		OrganizationID: orgA,
		Code:           "PROV-" + id,
		Name:           "Proveedor " + id,
		Status:         entity.ReferenceStatusActive,
	}
}

// item devuelve el estado persistido actual del ítem.
func (s *fakeStore) item(id string) entity.InventoryItem {
	return s.items[id]
}

// ── ItemRepository ────────────────────────────────────────────────────────────

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.items[item.ID] = *item
	r.s.itemOrder = append(r.s.itemOrder, item.ID)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	out := item
	return &out, nil
}

func (r *fakeItemRepo) GetByOrgAndCode(_ context.Context, orgID, code string) (*entity.InventoryItem, error) {
	for _, id := range r.s.itemOrder {
		item := r.s.items[id]
		if item.OrganizationID == orgID && strings.EqualFold(item.Code, code) && !item.IsDeleted {
			out := item
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	r.s.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) UpdateProjection(_ context.Context, item *entity.InventoryItem) error {
	r.s.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) SoftDelete(_ context.Context, id string) error {
	item := r.s.items[id]
	item.IsDeleted = true
	r.s.items[id] = item
	return nil
}

func (r *fakeItemRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.InventoryItem, error) {
	return r.list(orgID, limit, offset, false)
}

func (r *fakeItemRepo) ListActive(_ context.Context, orgID, locationID string, limit, offset int) ([]*entity.InventoryItem, error) {
	var all []*entity.InventoryItem
	for _, id := range r.s.itemOrder {
		item := r.s.items[id]
		if item.OrganizationID != orgID || item.IsDeleted {
			continue
		}
		if locationID != "" && item.LocationID != locationID {
			continue
		}
		out := item
		all = append(all, &out)
	}
	return page(all, limit, offset), nil
}

func (r *fakeItemRepo) list(orgID string, limit, offset int, includeDeleted bool) ([]*entity.InventoryItem, error) {
	var all []*entity.InventoryItem
	for _, id := range r.s.itemOrder {
		item := r.s.items[id]
		if item.OrganizationID != orgID {
			continue
		}
		if !includeDeleted && item.IsDeleted {
			continue
		}
		out := item
		all = append(all, &out)
	}
	return page(all, limit, offset), nil
}

// ── TransactionRepository ─────────────────────────────────────────────────────

type fakeTxRepo struct{ s *fakeStore }

func (r *fakeTxRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	r.s.txs = append(r.s.txs, *tx)
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransaction, error) {
	for _, tx := range r.s.txs {
		if tx.ID == id {
			out := tx
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var all []*entity.InventoryTransaction
	for i := range r.s.txs {
		if r.s.txs[i].ItemID == itemID {
			out := r.s.txs[i]
			all = append(all, &out)
		}
	}
	return page(all, limit, offset), nil
}

func (r *fakeTxRepo) ListByOrganization(_ context.Context, orgID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var all []*entity.InventoryTransaction
	for i := range r.s.txs {
		tx := r.s.txs[i]
		if tx.OrganizationID != orgID {
			continue
		}
		if from != nil && tx.Date.Before(*from) {
			continue
		}
		if to != nil && !tx.Date.Before(*to) {
			continue
		}
		out := tx
		all = append(all, &out)
	}
	return page(all, limit, offset), nil
}

// ── AllocationRepository ──────────────────────────────────────────────────────

type fakeAllocRepo struct{ s *fakeStore }

func (r *fakeAllocRepo) Create(_ context.Context, alloc *entity.InventoryAllocation) error {
	r.s.allocs[alloc.ID] = *alloc
	return nil
}

func (r *fakeAllocRepo) GetByID(_ context.Context, id string) (*entity.InventoryAllocation, error) {
	alloc, ok := r.s.allocs[id]
	if !ok {
		return nil, nil
	}
	out := alloc
	return &out, nil
}

func (r *fakeAllocRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAllocRepo) Update(_ context.Context, alloc *entity.InventoryAllocation) error {
	r.s.allocs[alloc.ID] = *alloc
	return nil
}

func (r *fakeAllocRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	return r.filter(func(a entity.InventoryAllocation) bool { return a.ItemID == itemID }, limit, offset)
}

func (r *fakeAllocRepo) ListByJob(_ context.Context, jobID string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	return r.filter(func(a entity.InventoryAllocation) bool { return a.JobID == jobID }, limit, offset)
}

func (r *fakeAllocRepo) ListByBid(_ context.Context, bidID string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	return r.filter(func(a entity.InventoryAllocation) bool { return a.BidID == bidID }, limit, offset)
}

func (r *fakeAllocRepo) CountOpenByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	for _, a := range r.s.allocs {
		if a.ItemID == itemID && !a.IsTerminal() {
			n++
		}
	}
	return n, nil
}

func (r *fakeAllocRepo) filter(keep func(entity.InventoryAllocation) bool, limit, offset int) ([]*entity.InventoryAllocation, error) {
	var all []*entity.InventoryAllocation
	for _, a := range r.s.allocs {
		if keep(a) {
			out := a
			all = append(all, &out)
		}
	}
	return page(all, limit, offset), nil
}

// ── PurchaseOrderRepository ───────────────────────────────────────────────────

type fakePORepo struct{ s *fakeStore }

func copyPO(po entity.InventoryPurchaseOrder) *entity.InventoryPurchaseOrder {
	out := po
	out.Items = append([]entity.InventoryPurchaseOrderItem(nil), po.Items...)
	return &out
}

func (r *fakePORepo) Create(_ context.Context, po *entity.InventoryPurchaseOrder) error {
	r.s.orders[po.ID] = *copyPO(*po)
	return nil
}

func (r *fakePORepo) GetByID(_ context.Context, id string) (*entity.InventoryPurchaseOrder, error) {
	po, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return copyPO(po), nil
}

func (r *fakePORepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryPurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePORepo) UpdateHeader(_ context.Context, po *entity.InventoryPurchaseOrder) error {
	stored, ok := r.s.orders[po.ID]
	if !ok {
		return nil
	}
	lines := stored.Items
	stored = *po
	stored.Items = lines
	r.s.orders[po.ID] = stored
	return nil
}

func (r *fakePORepo) UpdateLine(_ context.Context, line *entity.InventoryPurchaseOrderItem) error {
	po, ok := r.s.orders[line.PurchaseOrderID]
	if !ok {
		return nil
	}
	for i := range po.Items {
		if po.Items[i].ID == line.ID {
			po.Items[i] = *line
		}
	}
	r.s.orders[line.PurchaseOrderID] = po
	return nil
}

func (r *fakePORepo) ListByOrganization(_ context.Context, orgID, status string, limit, offset int) ([]*entity.InventoryPurchaseOrder, error) {
	var all []*entity.InventoryPurchaseOrder
	for _, po := range r.s.orders {
		if po.OrganizationID != orgID {
			continue
		}
		if status != "" && po.Status != status {
			continue
		}
		all = append(all, copyPO(po))
	}
	return page(all, limit, offset), nil
}

func (r *fakePORepo) CountOpenLinesByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	for _, po := range r.s.orders {
		if po.IsTerminal() {
			continue
		}
		for _, li := range po.Items {
			if li.ItemID == itemID && !li.FullyReceived() {
				n++
			}
		}
	}
	return n, nil
}

// ── CountRepository ───────────────────────────────────────────────────────────

type fakeCountRepo struct{ s *fakeStore }

func (r *fakeCountRepo) Create(_ context.Context, count *entity.InventoryCount) error {
	stored := *count
	stored.Items = nil
	r.s.counts[count.ID] = stored
	return nil
}

func (r *fakeCountRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	c, ok := r.s.counts[id]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (r *fakeCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeCountRepo) UpdateHeader(_ context.Context, count *entity.InventoryCount) error {
	stored := *count
	stored.Items = nil
	r.s.counts[count.ID] = stored
	return nil
}

func (r *fakeCountRepo) CreateItems(_ context.Context, items []entity.InventoryCountItem) error {
	for _, li := range items {
		r.s.countLines[li.CountID] = append(r.s.countLines[li.CountID], li)
	}
	return nil
}

func (r *fakeCountRepo) GetItem(_ context.Context, countID, itemID string) (*entity.InventoryCountItem, error) {
	for _, li := range r.s.countLines[countID] {
		if li.ItemID == itemID {
			out := li
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeCountRepo) UpdateItem(_ context.Context, item *entity.InventoryCountItem) error {
	lines := r.s.countLines[item.CountID]
	for i := range lines {
		if lines[i].ID == item.ID {
			lines[i] = *item
		}
	}
	return nil
}

func (r *fakeCountRepo) ListItems(_ context.Context, countID string) ([]entity.InventoryCountItem, error) {
	return append([]entity.InventoryCountItem(nil), r.s.countLines[countID]...), nil
}

func (r *fakeCountRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.InventoryCount, error) {
	var all []*entity.InventoryCount
	for _, c := range r.s.counts {
		if c.OrganizationID != orgID {
			continue
		}
		out := c
		all = append(all, &out)
	}
	return page(all, limit, offset), nil
}

// ── StockAlertRepository ──────────────────────────────────────────────────────

type fakeAlertRepo struct{ s *fakeStore }

func (r *fakeAlertRepo) Create(_ context.Context, alert *entity.InventoryStockAlert) error {
	r.s.alerts[alert.ID] = *alert
	r.s.alertOrder = append(r.s.alertOrder, alert.ID)
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*entity.InventoryStockAlert, error) {
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	out := a
	return &out, nil
}

func (r *fakeAlertRepo) Update(_ context.Context, alert *entity.InventoryStockAlert) error {
	r.s.alerts[alert.ID] = *alert
	return nil
}

func (r *fakeAlertRepo) ExistsOpen(_ context.Context, itemID, alertType string) (bool, error) {
	for _, a := range r.s.alerts {
		if a.ItemID == itemID && a.AlertType == alertType && !a.IsResolved {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) ListOpenByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.InventoryStockAlert, error) {
	var all []*entity.InventoryStockAlert
	for _, id := range r.s.alertOrder {
		a := r.s.alerts[id]
		if a.OrganizationID != orgID || a.IsResolved {
			continue
		}
		out := a
		all = append(all, &out)
	}
	return page(all, limit, offset), nil
}

// ── SupplierRepository ────────────────────────────────────────────────────────

type fakeSupplierRepo struct{ s *fakeStore }

func (r *fakeSupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	out := sup
	return &out, nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *fakeSupplierRepo) SetStatus(_ context.Context, id, status string) error {
	sup := r.s.suppliers[id]
	sup.Status = status
	r.s.suppliers[id] = sup
	return nil
}

func (r *fakeSupplierRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Supplier, error) {
	var all []*entity.Supplier
	for _, sup := range r.s.suppliers {
		if sup.OrganizationID != orgID {
			continue
		}
		out := sup
		all = append(all, &out)
	}
	return page(all, limit, offset), nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	items  *fakeItemRepo
	ledger *fakeTxRepo
	allocs *fakeAllocRepo
	orders *fakePORepo
	counts *fakeCountRepo
}

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(repository.ItemRepository, repository.TransactionRepository) error) error {
	return fn(tr.items, tr.ledger)
}

func (tr *fakeTxRunner) RunAllocation(ctx context.Context, fn func(repository.ItemRepository, repository.TransactionRepository, repository.AllocationRepository) error) error {
	return fn(tr.items, tr.ledger, tr.allocs)
}

func (tr *fakeTxRunner) RunPurchase(ctx context.Context, fn func(repository.ItemRepository, repository.TransactionRepository, repository.PurchaseOrderRepository) error) error {
	return fn(tr.items, tr.ledger, tr.orders)
}

func (tr *fakeTxRunner) RunCount(ctx context.Context, fn func(repository.ItemRepository, repository.TransactionRepository, repository.CountRepository) error) error {
	return fn(tr.items, tr.ledger, tr.counts)
}

// ── fixture raíz ──────────────────────────────────────────────────────────────

// fixture agrupa el store, los fakes y los casos de uso ya cableados.
type fixture struct {
	store     *fakeStore
	items     *fakeItemRepo
	ledger    *fakeTxRepo
	allocs    *fakeAllocRepo
	orders    *fakePORepo
	counts    *fakeCountRepo
	alerts    *fakeAlertRepo
	suppliers *fakeSupplierRepo
	runner    *fakeTxRunner

	ledgerUC *appinv.LedgerUseCase
	allocUC  *appinv.AllocationUseCase
	poUC     *appinv.PurchaseOrderUseCase
	countUC  *appinv.CountUseCase
	itemUC   *appinv.ItemUseCase
	alertUC  *appinv.StockAlertUseCase
}

func newFixture() *fixture {
	s := newStore()
	f := &fixture{
		store:     s,
		items:     &fakeItemRepo{s: s},
		ledger:    &fakeTxRepo{s: s},
		allocs:    &fakeAllocRepo{s: s},
		orders:    &fakePORepo{s: s},
		counts:    &fakeCountRepo{s: s},
		alerts:    &fakeAlertRepo{s: s},
		suppliers: &fakeSupplierRepo{s: s},
	}
	f.runner = &fakeTxRunner{items: f.items, ledger: f.ledger, allocs: f.allocs, orders: f.orders, counts: f.counts}
	f.ledgerUC = appinv.NewLedgerUseCase(f.runner, f.items, f.ledger)
	f.allocUC = appinv.NewAllocationUseCase(f.runner, f.ledgerUC, f.allocs)
	f.poUC = appinv.NewPurchaseOrderUseCase(f.runner, f.ledgerUC, f.orders, f.suppliers)
	f.countUC = appinv.NewCountUseCase(f.runner, f.ledgerUC, f.counts, f.items)
	f.itemUC = appinv.NewItemUseCase(f.runner, f.ledgerUC, f.items, f.allocs, f.orders)
	f.alertUC = appinv.NewStockAlertUseCase(f.items, f.alerts, 30*24*time.Hour)
	return f
}

// page aplica limit/offset al estilo SQL.
func page[T any](all []*T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
