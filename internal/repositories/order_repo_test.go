package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var orderColumns = []string{"id", "tenant_id", "total", "created_at", "product_id", "name", "unit_price", "quantity"}

type OrderRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     OrderRepository
	tenantID uuid.UUID
	from     time.Time
	to       time.Time
	context  context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewOrderRepo(mock)
	suite.tenantID = uuid.New()
	suite.to = time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	suite.from = suite.to.AddDate(0, 0, -28)
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) TestListByTenantAndDateRange_GroupsLinesPerOrder() {
	day1 := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 11, 18, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(orderColumns).
		AddRow("ord-1", suite.tenantID, 59.80, day1, "sku-1", "Câble USB-C", 9.90, 2).
		AddRow("ord-1", suite.tenantID, 59.80, day1, "sku-2", "Chargeur 65W", 39.00, 1).
		AddRow("ord-2", suite.tenantID, 5.00, day2, "", "", 0.0, 0).
		AddRow("ord-3", suite.tenantID, 19.80, day2, "sku-1", "Câble USB-C", 9.90, 2)

	suite.mock.ExpectQuery(`FROM orders o LEFT JOIN order_items i`).
		WithArgs(suite.tenantID, suite.from, suite.to).
		WillReturnRows(rows)

	orders, err := suite.repo.ListByTenantAndDateRange(suite.context, suite.tenantID, suite.from, suite.to)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), orders, 3)

	assert.Equal(suite.T(), "ord-1", orders[0].ID)
	assert.Equal(suite.T(), 59.80, orders[0].Total)
	assert.Equal(suite.T(), day1, orders[0].CreatedAt)
	require.Len(suite.T(), orders[0].Items, 2)
	assert.Equal(suite.T(), "sku-1", orders[0].Items[0].ProductID)
	assert.Equal(suite.T(), 2, orders[0].Items[0].Quantity)
	assert.Equal(suite.T(), "sku-2", orders[0].Items[1].ProductID)

	assert.Equal(suite.T(), "ord-2", orders[1].ID)
	assert.Empty(suite.T(), orders[1].Items)

	assert.Equal(suite.T(), "ord-3", orders[2].ID)
	assert.Len(suite.T(), orders[2].Items, 1)
}

func (suite *OrderRepoTestSuite) TestListByTenantAndDateRange_QueryError() {
	suite.mock.ExpectQuery(`FROM orders o`).
		WithArgs(suite.tenantID, suite.from, suite.to).
		WillReturnError(errors.New("timeout"))

	orders, err := suite.repo.ListByTenantAndDateRange(suite.context, suite.tenantID, suite.from, suite.to)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), orders)
}

func (suite *OrderRepoTestSuite) TestListByTenantAndDateRange_RowError() {
	rows := pgxmock.NewRows(orderColumns).
		AddRow("ord-1", suite.tenantID, 10.0, suite.to, "sku-1", "Câble USB-C", 10.0, 1).
		RowError(0, errors.New("broken row"))

	suite.mock.ExpectQuery(`FROM orders o`).
		WithArgs(suite.tenantID, suite.from, suite.to).
		WillReturnRows(rows)

	_, err := suite.repo.ListByTenantAndDateRange(suite.context, suite.tenantID, suite.from, suite.to)
	assert.Error(suite.T(), err)
}
