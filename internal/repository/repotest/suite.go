// Package repotest holds behaviour suites every repository implementation
// must pass.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// RandomCart builds a cart with n in-stock lines and one saved item.
func RandomCart(userID string, n int) *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := domain.NewCart(gofakeit.UUID(), userID, "USD", now, time.Hour)
	for i := 0; i < n; i++ {
		c.Items = append(c.Items, randomLine(domain.InStock))
	}
	c.Saved = append(c.Saved, domain.SavedItem(randomLine(domain.OutOfStock)))
	return c
}

func randomLine(stock domain.StockStatus) domain.LineItem {
	return domain.LineItem{
		ID:        gofakeit.UUID(),
		ProductID: gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		UnitPrice: decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Quantity:  gofakeit.IntRange(1, 10),
		Stock:     stock,
	}
}

// CartRepositorySuite exercises a repository.CartRepository. NewRepo is
// called before every test.
type CartRepositorySuite struct {
	suite.Suite

	NewRepo func() repository.CartRepository
	repo    repository.CartRepository
}

func (s *CartRepositorySuite) SetupTest() {
	s.repo = s.NewRepo()
}

func (s *CartRepositorySuite) TestGet_NotFound() {
	_, err := s.repo.Get(context.Background(), gofakeit.UUID())
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CartRepositorySuite) TestSaveAndGet() {
	ctx := context.Background()
	cart := RandomCart(gofakeit.UUID(), 3)
	cart.Promo = &domain.AppliedPromo{Code: "SAVE10", Percent: decimal.NewFromInt(10), AppliedAt: cart.CreatedAt}

	s.Require().True(s.mustSaveIfVersion(cart, 0))

	got, err := s.repo.Get(ctx, cart.UserID)
	s.Require().NoError(err)
	if diff := cmp.Diff(cart, got, decimalEqual); diff != "" {
		s.Failf("cart mismatch", "(-want +got):\n%s", diff)
	}
}

func (s *CartRepositorySuite) TestGet_ReturnsCopy() {
	ctx := context.Background()
	cart := RandomCart(gofakeit.UUID(), 1)
	s.Require().True(s.mustSaveIfVersion(cart, 0))

	got, err := s.repo.Get(ctx, cart.UserID)
	s.Require().NoError(err)
	got.Items[0].Quantity += 5

	again, err := s.repo.Get(ctx, cart.UserID)
	s.Require().NoError(err)
	s.Equal(cart.Items[0].Quantity, again.Items[0].Quantity)
}

func (s *CartRepositorySuite) TestSaveIfVersion_NewCart() {
	ctx := context.Background()
	cart := RandomCart(gofakeit.UUID(), 2)

	ok, err := s.repo.SaveIfVersion(ctx, cart, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(1, cart.Version)

	got, err := s.repo.Get(ctx, cart.UserID)
	s.Require().NoError(err)
	s.Equal(1, got.Version)
}

func (s *CartRepositorySuite) TestSaveIfVersion_StaleWriterLoses() {
	ctx := context.Background()
	userID := gofakeit.UUID()
	s.Require().True(s.mustSaveIfVersion(RandomCart(userID, 1), 0))

	first, err := s.repo.Get(ctx, userID)
	s.Require().NoError(err)
	second, err := s.repo.Get(ctx, userID)
	s.Require().NoError(err)

	first.IncreaseQuantity(first.Items[0].ID)
	s.True(s.mustSaveIfVersion(first, 1))

	second.RemoveItem(second.Items[0].ID)
	s.False(s.mustSaveIfVersion(second, 1))
	s.Equal(1, second.Version)

	got, err := s.repo.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(2, got.Version)
	s.Len(got.Items, 1)
}

func (s *CartRepositorySuite) TestSaveIfVersion_ConcurrentWriters() {
	userID := gofakeit.UUID()
	s.Require().True(s.mustSaveIfVersion(RandomCart(userID, 1), 0))

	const writers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.repo.Get(context.Background(), userID)
			if err != nil {
				return
			}
			c.IncreaseQuantity(c.Items[0].ID)
			ok, err := s.repo.SaveIfVersion(context.Background(), c, 1)
			if err == nil && ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
}

func (s *CartRepositorySuite) mustSaveIfVersion(c *domain.Cart, expected int) bool {
	ok, err := s.repo.SaveIfVersion(context.Background(), c, expected)
	s.Require().NoError(err)
	return ok
}

// WishlistRepositorySuite exercises a repository.WishlistRepository.
type WishlistRepositorySuite struct {
	suite.Suite

	NewRepo func() repository.WishlistRepository
	repo    repository.WishlistRepository
}

func (s *WishlistRepositorySuite) SetupTest() {
	s.repo = s.NewRepo()
}

func (s *WishlistRepositorySuite) item(productID string, addedAt time.Time) domain.WishlistItem {
	return domain.WishlistItem{ProductID: productID, Name: gofakeit.ProductName(), AddedAt: addedAt}
}

func (s *WishlistRepositorySuite) TestEmpty() {
	items, err := s.repo.List(context.Background(), gofakeit.UUID())
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}

func (s *WishlistRepositorySuite) TestAddListOrder() {
	ctx := context.Background()
	userID := gofakeit.UUID()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"p-3", "p-1", "p-2"} {
		added, err := s.repo.Add(ctx, userID, s.item(id, base.Add(time.Duration(i)*time.Minute)))
		s.Require().NoError(err)
		s.True(added)
	}

	dup, err := s.repo.Add(ctx, userID, s.item("p-1", base.Add(time.Hour)))
	s.Require().NoError(err)
	s.False(dup)

	items, err := s.repo.List(ctx, userID)
	s.Require().NoError(err)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	s.Equal([]string{"p-3", "p-1", "p-2"}, ids)
	s.True(items[1].AddedAt.Equal(base.Add(time.Minute)))
}

func (s *WishlistRepositorySuite) TestRemoveAndClear() {
	ctx := context.Background()
	userID, other := gofakeit.UUID(), gofakeit.UUID()
	now := time.Now().UTC()

	_, err := s.repo.Add(ctx, userID, s.item("a", now))
	s.Require().NoError(err)
	_, err = s.repo.Add(ctx, userID, s.item("b", now.Add(time.Second)))
	s.Require().NoError(err)
	_, err = s.repo.Add(ctx, other, s.item("a", now))
	s.Require().NoError(err)

	removed, err := s.repo.Remove(ctx, userID, "a")
	s.Require().NoError(err)
	s.True(removed)

	removed, err = s.repo.Remove(ctx, userID, "a")
	s.Require().NoError(err)
	s.False(removed)

	s.Require().NoError(s.repo.Clear(ctx, userID))
	items, err := s.repo.List(ctx, userID)
	s.Require().NoError(err)
	s.Empty(items)

	items, err = s.repo.List(ctx, other)
	s.Require().NoError(err)
	s.Len(items, 1)
}
