package gormdb

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (*ProductRepository, []domain.Category) {
	t.Helper()
	ctx := context.Background()
	cats := NewCategoryRepository(db)
	rackets, err := cats.Create(ctx, "rackets")
	require.NoError(t, err)
	shoes, err := cats.Create(ctx, "shoes")
	require.NoError(t, err)
	return NewProductRepository(db), []domain.Category{*rackets, *shoes}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.Create(ctx, &domain.User{Email: "a@x.com", PasswordHash: "h", Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	_, err = repo.Create(ctx, &domain.User{Email: "a@x.com", PasswordHash: "h", Username: "other", Role: domain.RoleUser})
	require.ErrorIs(t, err, domain.ErrUserExists)
	_, err = repo.Create(ctx, &domain.User{Email: "b@x.com", PasswordHash: "h", Username: "alice", Role: domain.RoleUser})
	require.ErrorIs(t, err, domain.ErrConflict)

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "ghost@x.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByID(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)

	name := "Alice"
	role := domain.RoleAdmin
	updated, err := repo.Update(ctx, u.ID, domain.UserChanges{Name: &name, Role: &role})
	require.NoError(t, err)
	require.Equal(t, "Alice", updated.Name)
	require.Equal(t, domain.RoleAdmin, updated.Role)
	require.Equal(t, "a@x.com", updated.Email)
	require.Equal(t, "h", updated.PasswordHash)

	_, err = repo.Update(ctx, 999, domain.UserChanges{Name: &name})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUserRepository_UpdateUsernameConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.User{Email: "a@x.com", PasswordHash: "h", Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)
	bob, err := repo.Create(ctx, &domain.User{Email: "b@x.com", PasswordHash: "h", Username: "bob", Role: domain.RoleUser})
	require.NoError(t, err)

	taken := "alice"
	_, err = repo.Update(ctx, bob.ID, domain.UserChanges{Username: &taken})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	_, cats := seedCatalog(t, db)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "rackets")
	require.ErrorIs(t, err, domain.ErrCategoryExists)

	n, err := repo.CountByIDs(ctx, []uint{cats[0].ID, cats[1].ID, 99})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "rackets", list[0].Name)
}

func TestProductRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo, cats := seedCatalog(t, db)
	ctx := context.Background()

	p, err := repo.Create(ctx, &domain.Product{ID: "p1", Name: "Racket", Price: 10, Stock: 3}, []uint{cats[0].ID})
	require.NoError(t, err)
	require.Equal(t, []string{"rackets"}, p.Categories)

	_, err = repo.Create(ctx, &domain.Product{ID: "p2", Name: "Racket", Price: 10}, []uint{cats[0].ID})
	require.ErrorIs(t, err, domain.ErrProductExists)

	_, err = repo.Create(ctx, &domain.Product{ID: "p3", Name: "Ghost", Price: 10}, []uint{cats[0].ID, 99})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)

	price := 12.5
	updated, err := repo.Update(ctx, "p1", domain.ProductChanges{Price: &price, CategoryIDs: []uint{cats[1].ID}})
	require.NoError(t, err)
	require.Equal(t, 12.5, updated.Price)
	require.Equal(t, 3, updated.Stock)
	require.Equal(t, []string{"shoes"}, updated.Categories)

	_, err = repo.Update(ctx, "missing", domain.ProductChanges{Price: &price})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = repo.Update(ctx, "missing", domain.ProductChanges{CategoryIDs: []uint{cats[0].ID}})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, repo.SoftDelete(ctx, "p1"))
	_, err = repo.FindByID(ctx, "p1")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.ErrorIs(t, repo.SoftDelete(ctx, "p1"), domain.ErrProductNotFound)
	_, err = repo.Update(ctx, "p1", domain.ProductChanges{Price: &price})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	found, err := repo.FindByIDs(ctx, []string{"p1"})
	require.NoError(t, err)
	require.Empty(t, found)

	var raw int64
	require.NoError(t, db.Unscoped().Model(&productModel{}).Where("id = ?", "p1").Count(&raw).Error)
	require.EqualValues(t, 1, raw, "soft delete keeps the row")
}

func TestProductRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo, cats := seedCatalog(t, db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Carbon Racket", "Alloy Racket", "Court Shoe", "Grip Tape"} {
		catIDs := []uint{cats[0].ID}
		if name == "Court Shoe" {
			catIDs = []uint{cats[1].ID}
		}
		p, err := repo.Create(ctx, &domain.Product{ID: name, Name: name, Price: 1}, catIDs)
		require.NoError(t, err)
		require.NoError(t, db.Model(&productModel{}).Where("id = ?", p.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}
	require.NoError(t, repo.SoftDelete(ctx, "Grip Tape"))

	page := domain.NewPage(1, domain.DefaultPageSize)

	all, total, err := repo.List(ctx, domain.ProductFilter{Sort: domain.SortNameAsc, Page: page})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, []string{"Alloy Racket", "Carbon Racket", "Court Shoe"}, names(all))

	latest, _, err := repo.List(ctx, domain.ProductFilter{Sort: domain.SortLatest, Page: page})
	require.NoError(t, err)
	require.Equal(t, "Court Shoe", latest[0].Name)

	oldest, _, err := repo.List(ctx, domain.ProductFilter{Sort: domain.SortOldest, Page: page})
	require.NoError(t, err)
	require.Equal(t, "Carbon Racket", oldest[0].Name)

	byCat, total, err := repo.List(ctx, domain.ProductFilter{CategoryNames: []string{"shoes"}, Page: page})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, []string{"Court Shoe"}, names(byCat))

	search, total, err := repo.List(ctx, domain.ProductFilter{Search: "RACKET", Sort: domain.SortNameDesc, Page: page})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, []string{"Carbon Racket", "Alloy Racket"}, names(search))

	second, total, err := repo.List(ctx, domain.ProductFilter{Page: domain.Page{Number: 2, Size: 2}})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, second, 1)
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestCartRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	item, err := repo.Create(ctx, &domain.CartItem{ID: "c1", UserID: 7, ProductID: "p1", Qty: 1, Price: 9.5})
	require.NoError(t, err)
	require.Equal(t, "c1", item.ID)

	updated, err := repo.UpdateQty(ctx, "c1", 7, 5)
	require.NoError(t, err)
	require.Equal(t, 5, updated.Qty)
	require.Equal(t, 9.5, updated.Price)
	require.Equal(t, "p1", updated.ProductID)

	_, err = repo.UpdateQty(ctx, "unknown", 7, 5)
	require.ErrorIs(t, err, domain.ErrCartNotFound)
	_, err = repo.UpdateQty(ctx, "c1", 8, 2)
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	items, total, err := repo.ListByUser(ctx, 7, domain.NewPage(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, 5, items[0].Qty)

	empty, total, err := repo.ListByUser(ctx, 8, domain.NewPage(1, 10))
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, empty)

	_, err = repo.Delete(ctx, "c1", 8)
	require.ErrorIs(t, err, domain.ErrCartNotFound)
	deleted, err := repo.Delete(ctx, "c1", 7)
	require.NoError(t, err)
	require.Equal(t, "c1", deleted.ID)
	_, err = repo.Delete(ctx, "c1", 7)
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestOrderRepository(t *testing.T) {
	db := newTestDB(t)
	products, cats := seedCatalog(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	_, err := products.Create(ctx, &domain.Product{ID: "p1", Name: "Racket", Price: 10}, []uint{cats[0].ID})
	require.NoError(t, err)
	_, err = products.Create(ctx, &domain.Product{ID: "p2", Name: "Shoe", Price: 20}, []uint{cats[1].ID})
	require.NoError(t, err)

	order, err := repo.Create(ctx, &domain.Order{
		ID: "o1", UserID: 7, PaymentID: 1, DeliveryID: 2, Status: domain.OrderProcessing,
		Subtotal: 30, Tax: 3, ShippingCost: 5, GrandTotal: 38,
	}, []domain.OrderLine{{ProductID: "p1", Qty: 1}, {ProductID: "p2", Qty: 2}})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	_, err = repo.Create(ctx, &domain.Order{ID: "o2", UserID: 7, Status: domain.OrderProcessing},
		[]domain.OrderLine{{ProductID: "ghost", Qty: 1}})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	found, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, domain.OrderProcessing, found.Status)
	require.ElementsMatch(t, []domain.OrderItem{
		{ProductID: "p1", Name: "Racket", Qty: 1},
		{ProductID: "p2", Name: "Shoe", Qty: 2},
	}, found.Items)

	updated, err := repo.UpdateStatus(ctx, "o1", domain.OrderShipped)
	require.NoError(t, err)
	require.Equal(t, domain.OrderShipped, updated.Status)
	require.Equal(t, 38.0, updated.GrandTotal)
	require.Len(t, updated.Items, 2)

	_, err = repo.UpdateStatus(ctx, "missing", domain.OrderPaid)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	history, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)

	none, err := repo.ListByUser(ctx, 8)
	require.NoError(t, err)
	require.Empty(t, none)

	all, total, err := repo.List(ctx, domain.NewPage(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, all, 1)
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	require.False(t, isUniqueViolation(nil))
	require.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}
