//go:build integration

package repo_test

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/stretchr/testify/suite"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
	"github.com/light-bringer/procat-rest/internal/app/product/queries/get_product"
	"github.com/light-bringer/procat-rest/internal/app/product/queries/list_products"
	"github.com/light-bringer/procat-rest/internal/pkg/testutil"
)

// repositorySuite exercises a ProductRepository against a real store.
// Reset must leave the products table empty.
type repositorySuite struct {
	suite.Suite

	ctx   context.Context
	repo  contracts.ProductRepository
	reset func()
}

func (s *repositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.reset()
}

func (s *repositorySuite) TestCheckSchema() {
	s.Require().NoError(s.repo.CheckSchema(s.ctx))
}

func (s *repositorySuite) TestCreate() {
	product := testutil.NewFedora(s.T())

	s.Require().NoError(s.repo.Create(s.ctx, product))
	s.True(product.HasID())
	s.Equal("<Product Fedora id=["+itoa(product.ID())+"]>", product.String())

	stored, err := s.repo.GetByID(s.ctx, product.ID())
	s.Require().NoError(err)
	s.True(product.Equal(stored))

	s.ErrorIs(s.repo.Create(s.ctx, product), domain.ErrAlreadyPersisted)
}

func (s *repositorySuite) TestCreateEmptyDescriptionRoundTrips() {
	product, err := domain.NewProduct("Plain", "", domain.MustMoney("0"), false, domain.CategoryUnknown)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Create(s.ctx, product))

	stored, err := s.repo.GetByID(s.ctx, product.ID())
	s.Require().NoError(err)
	s.Equal("", stored.Description())
	s.True(stored.Price().IsZero())
}

func (s *repositorySuite) TestUpdate() {
	product := testutil.NewFedora(s.T())
	s.Require().NoError(s.repo.Create(s.ctx, product))
	id := product.ID()

	product.SetDescription("New description of product")
	s.Require().NoError(s.repo.Update(s.ctx, product))
	s.Equal(id, product.ID())

	stored, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("New description of product", stored.Description())

	all, err := s.repo.List(s.ctx, contracts.ListFilter{})
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *repositorySuite) TestUpdateWithoutChanges() {
	product := testutil.NewFedora(s.T())
	s.Require().NoError(s.repo.Create(s.ctx, product))
	s.NoError(s.repo.Update(s.ctx, product))
}

func (s *repositorySuite) TestUpdateErrors() {
	unsaved := testutil.NewFedora(s.T())
	s.ErrorIs(s.repo.Update(s.ctx, unsaved), domain.ErrEmptyID)

	ghost := domain.ReconstructProduct(987654, "Ghost", "", domain.MustMoney("1"), true, domain.CategoryFood)
	s.Require().NoError(ghost.SetName("Still a ghost"))
	s.ErrorIs(s.repo.Update(s.ctx, ghost), domain.ErrProductNotFound)

	unchanged := domain.ReconstructProduct(987654, "Ghost", "", domain.MustMoney("1"), true, domain.CategoryFood)
	s.ErrorIs(s.repo.Update(s.ctx, unchanged), domain.ErrProductNotFound)
}

func (s *repositorySuite) TestDelete() {
	product := testutil.NewFedora(s.T())
	s.Require().NoError(s.repo.Create(s.ctx, product))

	s.Require().NoError(s.repo.Delete(s.ctx, product.ID()))
	_, err := s.repo.GetByID(s.ctx, product.ID())
	s.ErrorIs(err, domain.ErrProductNotFound)

	s.NoError(s.repo.Delete(s.ctx, product.ID()))
}

func (s *repositorySuite) TestFinders() {
	rng := rand.New(rand.NewSource(3))
	products := testutil.CreateProducts(s.T(), s.repo, rng, 10)

	q := list_products.NewQuery(s.repo)

	all, err := q.All(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 10)

	category := products[0].Category()
	expected := 0
	for _, p := range products {
		if p.Category() == category {
			expected++
		}
	}
	byCategory, err := q.FindByCategory(s.ctx, category)
	s.Require().NoError(err)
	s.Len(byCategory, expected)

	byName, err := q.FindByName(s.ctx, products[1].Name())
	s.Require().NoError(err)
	s.Require().NotEmpty(byName)
	s.Equal(products[1].Name(), byName[0].Name())

	available := 0
	for _, p := range products {
		if p.Available() {
			available++
		}
	}
	byAvailability, err := q.FindByAvailability(s.ctx, true)
	s.Require().NoError(err)
	s.Len(byAvailability, available)

	price := products[2].Price()
	byPrice, err := q.FindByPrice(s.ctx, price.Decimal().String())
	s.Require().NoError(err)
	s.Require().NotEmpty(byPrice)
	for _, p := range byPrice {
		s.True(p.Price().Equals(price))
	}

	total, err := s.repo.Count(s.ctx, contracts.ListFilter{Category: &category})
	s.Require().NoError(err)
	s.Equal(int64(expected), total)

	found, err := get_product.NewQuery(s.repo).Find(s.ctx, products[3].ID())
	s.Require().NoError(err)
	s.True(found.Equal(products[3]))

	missing, err := get_product.NewQuery(s.repo).Find(s.ctx, products[9].ID()+1000)
	s.NoError(err)
	s.Nil(missing)
}

func (s *repositorySuite) TestListPaging() {
	testutil.CreateProducts(s.T(), s.repo, rand.New(rand.NewSource(5)), 6)

	all, err := s.repo.List(s.ctx, contracts.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 6)

	page, err := s.repo.List(s.ctx, contracts.ListFilter{Limit: 2, Offset: 3})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(all[3].ID(), page[0].ID())
	s.Equal(all[4].ID(), page[1].ID())

	tail, err := s.repo.List(s.ctx, contracts.ListFilter{Offset: 4})
	s.Require().NoError(err)
	s.Len(tail, 2)

	total, err := s.repo.Count(s.ctx, contracts.ListFilter{Limit: 2, Offset: 3})
	s.Require().NoError(err)
	s.Equal(int64(6), total)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
