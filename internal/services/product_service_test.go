package services

import (
	"context"
	"errors"
	"testing"

	"todostock/internal/common"
	"todostock/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProductServiceTestSuite struct {
	suite.Suite
	productRepo *MockProductRepository
	cacheSvc    *MockCacheService
	service     ProductService
	ctx         context.Context
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.productRepo = new(MockProductRepository)
	suite.cacheSvc = new(MockCacheService)
	suite.service = NewProductService(suite.productRepo, suite.cacheSvc, 3)
	suite.ctx = context.Background()
}

func (suite *ProductServiceTestSuite) TearDownTest() {
	suite.productRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (suite *ProductServiceTestSuite) TestCreateProduct_Success() {
	product := &models.Product{Codigo: " P-001 ", NombreProducto: "Arroz", Stock: 10}
	suite.productRepo.On("Create", suite.ctx, product).Return(nil).Once()

	err := suite.service.CreateProduct(suite.ctx, product)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "P-001", product.Codigo)
}

func (suite *ProductServiceTestSuite) TestCreateProduct_MissingFields() {
	err := suite.service.CreateProduct(suite.ctx, &models.Product{NombreProducto: "Arroz"})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	assert.EqualError(suite.T(), err, "codigo is required")

	err = suite.service.CreateProduct(suite.ctx, &models.Product{Codigo: "P-1"})
	assert.EqualError(suite.T(), err, "nombre_producto is required")
}

func (suite *ProductServiceTestSuite) TestCreateProduct_NegativeStock() {
	err := suite.service.CreateProduct(suite.ctx, &models.Product{Codigo: "P-1", NombreProducto: "Sal", Stock: -1})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	suite.productRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_EmptyPatch() {
	_, err := suite.service.UpdateProduct(suite.ctx, 1, &models.ProductPatch{})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NegativeStock() {
	stock := -5
	_, err := suite.service.UpdateProduct(suite.ctx, 1, &models.ProductPatch{Stock: &stock})
	assert.EqualError(suite.T(), err, "stock cannot be negative")
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_StockOnlyKeepsReports() {
	stock := 50
	patch := &models.ProductPatch{Stock: &stock}
	updated := &models.Product{ID: 1, Codigo: "P-1", NombreProducto: "Sal", Stock: 50}
	suite.productRepo.On("Update", suite.ctx, int64(1), patch).Return(updated, nil).Once()

	product, err := suite.service.UpdateProduct(suite.ctx, 1, patch)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50, product.Stock)
	suite.cacheSvc.AssertNotCalled(suite.T(), "InvalidateReports", mock.Anything)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_RenameInvalidatesReports() {
	name := "Sal de mar"
	patch := &models.ProductPatch{NombreProducto: &name}
	suite.productRepo.On("Update", suite.ctx, int64(1), patch).Return(&models.Product{ID: 1, NombreProducto: name}, nil).Once()
	suite.cacheSvc.On("InvalidateReports", suite.ctx).Return(errors.New("redis down")).Once()

	product, err := suite.service.UpdateProduct(suite.ctx, 1, patch)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), name, product.NombreProducto)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NotFound() {
	stock := 1
	patch := &models.ProductPatch{Stock: &stock}
	suite.productRepo.On("Update", suite.ctx, int64(9), patch).Return(nil, common.NewNotFoundError("product 9 not found")).Once()

	_, err := suite.service.UpdateProduct(suite.ctx, 9, patch)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *ProductServiceTestSuite) TestListProducts_RetriesTransientFailure() {
	products := []*models.Product{{ID: 1, NombreProducto: "Arroz"}}
	suite.productRepo.On("List", suite.ctx).Return(nil, &pgconn.PgError{Code: "08006"}).Once()
	suite.productRepo.On("List", suite.ctx).Return(products, nil).Once()

	got, err := suite.service.ListProducts(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), products, got)
}

func (suite *ProductServiceTestSuite) TestGetStock_NotFound() {
	suite.productRepo.On("GetStock", suite.ctx, int64(3)).Return(0, common.NewNotFoundError("product 3 not found")).Once()

	_, err := suite.service.GetStock(suite.ctx, 3)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}
