package catalog

import (
	"context"
	"errors"
	"testing"

	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

type stubRepo struct {
	products   map[string]*documents.Product
	categories map[string]*documents.Category
	failNext   error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products:   make(map[string]*documents.Product),
		categories: make(map[string]*documents.Category),
	}
}

func (s *stubRepo) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *stubRepo) InsertProduct(ctx context.Context, product *documents.Product) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *stubRepo) FindProductByID(ctx context.Context, id string) (*documents.Product, error) {
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	product, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubRepo) ListProducts(ctx context.Context, categoryID string) ([]documents.Product, error) {
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []documents.Product
	for _, product := range s.products {
		if categoryID == "" || product.CategoryID == categoryID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateProduct(ctx context.Context, product *documents.Product) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id string) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubRepo) InsertCategory(ctx context.Context, category *documents.Category) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	copied := *category
	s.categories[category.ID] = &copied
	return nil
}

func (s *stubRepo) ListCategories(ctx context.Context) ([]documents.Category, error) {
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []documents.Category
	for _, category := range s.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (s *stubRepo) DeleteCategory(ctx context.Context, id string) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func money(t *testing.T, value string) types.Money {
	t.Helper()
	m, err := types.MoneyFromString(value)
	if err != nil {
		t.Fatalf("money %q: %v", value, err)
	}
	return m
}

func TestCreateProductValidates(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "  Widget  ",
		Price:      money(t, "19.99"),
		CategoryID: "cat-1",
		Discount:   10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Widget" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.ID == "" {
		t.Fatal("expected generated id")
	}

	if _, err := svc.CreateProduct(ctx, CreateProductInput{Name: "  ", Price: money(t, "1")}); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for blank name")
	}
	if _, err := svc.CreateProduct(ctx, CreateProductInput{Name: "X", Price: money(t, "1"), Discount: 120}); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for discount over 100")
	}
}

func TestUpdateProductAppliesPartialFields(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Widget", Price: money(t, "10")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := money(t, "12.50")
	name := "Widget Pro"
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Name: &name, Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Widget Pro" || !updated.Price.Equal(newPrice) {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := svc.UpdateProduct(ctx, "missing", UpdateProductInput{Name: &name}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestListProductsFiltersByCategory(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, CreateProductInput{Name: "A", Price: money(t, "1"), CategoryID: "cat-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, CreateProductInput{Name: "B", Price: money(t, "2"), CategoryID: "cat-2"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	filtered, err := svc.ListProducts(ctx, "cat-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "A" {
		t.Fatalf("unexpected filter result %+v", filtered)
	}

	all, err := svc.ListProducts(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}
}

func TestCategoryLifecycle(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, " Beverages ", "drinks", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if created.Name != "Beverages" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	categories, err := svc.ListCategories(ctx)
	if err != nil || len(categories) != 1 {
		t.Fatalf("list categories: %v (%d)", err, len(categories))
	}

	if err := svc.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if err := svc.DeleteCategory(ctx, created.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestStoreFailureSurfacesAsDependency(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)

	repo.failNext = errors.New("connection reset")
	_, err := svc.ListProducts(context.Background(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
