package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/pkg/dbtest"
	"gorm.io/gorm"
)

var (
	orderNow     = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	orderColumns = []string{"id", "user_id", "email", "total", "status", "payment_status", "payment_method", "created_at"}
	itemColumns  = []string{"id", "order_id", "product_id", "product_name", "product_images", "price", "quantity"}
)

type keyResolver struct{ fail string }

func (r keyResolver) ResolveURL(_ context.Context, ref string) (string, error) {
	if ref == r.fail {
		return "", errors.New("presign failed")
	}
	return "https://bucket.s3.amazonaws.com/" + ref + "?X-Amz-Signature=f00", nil
}

func newOrderService(db *gorm.DB, images ImageResolver) *Service {
	s := NewService(db, images)
	s.now = func() time.Time { return orderNow }
	return s
}

// expectGetOrder queues the order row, its items and their products
func expectGetOrder(mock sqlmock.Sqlmock, orderID, userID uuid.UUID, status OrderStatus) {
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 AND user_id = \$2 ORDER BY "orders"\."id" LIMIT`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID.String(), userID.String(), "ana@example.com", "140.00", string(status), "pending", "mercadopago", orderNow))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1 ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(1, orderID.String(), 5, "Mug", []byte(`["products/mug.jpg","products/mug-2.jpg"]`), "70.00", 2))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "shipping_days"}).AddRow(5, "Mug", "7"))
}

func TestCreateWritesOrderAndItemsInOneTransaction(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_items" .*RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	o := &Order{
		UserID:        uuid.New(),
		Total:         decimal.NewFromInt(170),
		PaymentMethod: PaymentMethodMercadoPago,
		Items: []OrderItem{
			{ProductID: 1, ProductName: "Mug", ProductImages: []string{"products/mug.jpg"}, Price: decimal.NewFromInt(70), Quantity: 2},
			{ProductID: 2, ProductName: "Plate", Price: decimal.NewFromInt(30), Quantity: 1},
		},
	}
	require.NoError(t, svc.Create(context.Background(), o))

	assert.NotEqual(t, uuid.Nil, o.ID)
	for _, item := range o.Items {
		assert.Equal(t, o.ID, item.OrderID)
	}
	assert.Equal(t, uint(1), o.Items[0].ID)
	assert.Equal(t, uint(2), o.Items[1].ID)
}

func TestCreateRollsBackWhenItemsFail(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := svc.Create(context.Background(), &Order{
		UserID:        uuid.New(),
		PaymentMethod: PaymentMethodCashOnDelivery,
		Items:         []OrderItem{{ProductID: 1, Price: decimal.NewFromInt(10), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order items")
}

func TestCreateValidatesBeforeQuerying(t *testing.T) {
	db, _ := dbtest.New(t)
	svc := newOrderService(db, nil)

	assert.ErrorIs(t, svc.Create(context.Background(), &Order{PaymentMethod: PaymentMethodCashOnDelivery}), ErrEmptyOrder)
	assert.ErrorIs(t, svc.Create(context.Background(), &Order{
		PaymentMethod: "barter",
		Items:         []OrderItem{{ProductID: 1, Quantity: 1}},
	}), ErrUnsupportedPaymentType)
}

func TestCancelTwiceIsNotCancellable(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)
	orderID, userID := uuid.New(), uuid.New()

	expectGetOrder(mock, orderID, userID, OrderStatusPending)
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1,"updated_at"=\$2 WHERE \(?id = \$3 AND status IN \(\$4,\$5\)\)?`).
		WithArgs(OrderStatusCancelled, sqlmock.AnyArg(), orderID, OrderStatusPending, OrderStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cancelled, err := svc.CancelOrder(context.Background(), userID, orderID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)

	expectGetOrder(mock, orderID, userID, OrderStatusCancelled)

	_, err = svc.CancelOrder(context.Background(), userID, orderID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelLosingConcurrentUpdate(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)
	orderID, userID := uuid.New(), uuid.New()

	expectGetOrder(mock, orderID, userID, OrderStatusProcessing)
	mock.ExpectExec(`UPDATE "orders" SET "status"=`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.CancelOrder(context.Background(), userID, orderID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestGetOrderNotFound(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := svc.GetOrder(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrderResolvesStoredImageKeys(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, keyResolver{fail: "products/mug-2.jpg"})
	orderID, userID := uuid.New(), uuid.New()

	expectGetOrder(mock, orderID, userID, OrderStatusPending)

	o, err := svc.GetOrder(context.Background(), userID, orderID)
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	images := o.Items[0].ProductImages
	assert.True(t, strings.HasPrefix(images[0], "https://bucket.s3.amazonaws.com/products/mug.jpg?"))
	assert.Equal(t, "products/mug-2.jpg", images[1])
	assert.Equal(t, "7", EstimatedShippingDays(o))
}

func TestUpdateStatus(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)
	orderID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID.String(), uuid.NewString(), "", "10.00", "shipped", "paid", "mercadopago", orderNow))

	_, err := svc.UpdateStatus(context.Background(), orderID, OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID.String(), uuid.NewString(), "", "10.00", "processing", "paid", "mercadopago", orderNow))
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1,"updated_at"=\$2 WHERE \(?id = \$3 AND status = \$4\)?`).
		WithArgs(OrderStatusShipped, sqlmock.AnyArg(), orderID, OrderStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = svc.UpdateStatus(context.Background(), orderID, OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdatePaymentStatusUnknownOrder(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)

	mock.ExpectExec(`UPDATE "orders" SET "payment_status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, svc.UpdatePaymentStatus(context.Background(), uuid.New(), PaymentStatusPaid), ErrOrderNotFound)
}

func TestListRecentLoadsItemProducts(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := newOrderService(db, nil)
	orderID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID.String(), uuid.NewString(), "", "100.00", "processing", "paid", "mercadopago", orderNow))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(1, orderID.String(), 5, "Mug", []byte(`[]`), "50.00", 1).
			AddRow(2, orderID.String(), 6, "Vase", []byte(`[]`), "50.00", 1))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "shipping_days"}).
			AddRow(5, "", "7").
			AddRow(6, "Hand thrown [shipping_days:12]", ""))

	orders, err := svc.ListRecent(context.Background(), OrderListRequest{Status: OrderStatusProcessing})
	require.NoError(t, err)

	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 2)
	require.NotNil(t, orders[0].Items[0].Product)
	assert.Equal(t, "7-12", EstimatedShippingDays(&orders[0]))
}
