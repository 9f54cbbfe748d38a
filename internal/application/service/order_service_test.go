package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter wires the services a cashier uses at the front desk over fakes
type counter struct {
	customers *fakeCustomerRepo
	products  *fakeProductRepo
	carts     *fakeCartRepo
	orders    *fakeOrderRepo
	shiftRepo *fakeShiftRepo
	notifier  *fakeNotifier

	cart   *CartService
	shifts *ShiftService
	order  *OrderService

	cashier uuid.UUID
	shirt   *entity.Product
	suit    *entity.Product
}

func newCounter(t *testing.T, settings OrderSettings) *counter {
	t.Helper()
	c := &counter{
		customers: newFakeCustomerRepo(),
		products:  newFakeProductRepo(),
		shiftRepo: newFakeShiftRepo(),
		notifier:  &fakeNotifier{},
		cashier:   uuid.New(),
	}
	c.carts = newFakeCartRepo(c.customers)
	c.orders = newFakeOrderRepo(c.customers)

	calc := billing.NewCalculator(billing.DefaultTaxRate)
	c.cart = NewCartService(c.carts, c.products, c.customers, calc, nil)
	c.shifts = NewShiftService(c.shiftRepo)
	c.order = NewOrderService(c.carts, c.orders, c.customers, c.shifts, calc, c.notifier, nil, settings)

	c.shirt = c.products.add(entity.Product{Code: "SHIRT", Name: "Shirt - wash & press", Price: 15000, Active: true})
	c.suit = c.products.add(entity.Product{Code: "SUIT", Name: "Suit - dry clean", Price: 80000, Active: true})
	return c
}

// fillCart puts 3 shirts and a suit (1250.00) in the cart for a new customer
func (c *counter) fillCart(t *testing.T, credit int64) *entity.Customer {
	t.Helper()
	ctx := context.Background()
	email := "jane@example.com"
	customer := c.customers.add(entity.Customer{Name: "Jane", Email: &email, CreditBalance: credit})

	_, err := c.cart.AddItem(ctx, c.cashier, c.shirt.ID, 3)
	require.NoError(t, err)
	_, err = c.cart.AddItem(ctx, c.cashier, c.suit.ID, 1)
	require.NoError(t, err)
	_, err = c.cart.SetCustomer(ctx, c.cashier, &customer.ID)
	require.NoError(t, err)
	return customer
}

func collectIn(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	var names []string
	for _, fe := range appErr.Errors {
		names = append(names, fe.Field)
	}
	return names
}

func TestCreateOrder_RejectsIncompleteCheckout(t *testing.T) {
	c := newCounter(t, OrderSettings{})

	_, err := c.order.CreateOrder(context.Background(), &CheckoutInput{UserID: c.cashier})

	assert.ElementsMatch(t, []string{"customer_id", "collection_date", "items"}, fieldNames(t, err))
}

func TestCreateOrder_UnknownPaymentMethod(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	c.fillCart(t, 0)

	_, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID:             c.cashier,
		BillingAdjustments: BillingAdjustments{PaymentMethod: "bitcoin"},
		CollectionDate:     collectIn(2),
	})

	assert.Equal(t, []string{"payment_method"}, fieldNames(t, err))
}

func TestCreateOrder_CashPaysEverythingAndFeedsShift(t *testing.T) {
	c := newCounter(t, OrderSettings{OrderPrefix: "TST"})
	ctx := context.Background()
	c.fillCart(t, 0)

	shift, err := c.shifts.OpenShift(ctx, c.cashier, 100, nil)
	require.NoError(t, err)

	order, err := c.order.CreateOrder(ctx, &CheckoutInput{
		UserID:             c.cashier,
		BillingAdjustments: BillingAdjustments{PaymentMethod: billing.PaymentCash},
		CollectionDate:     collectIn(2),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^TST-[0-9A-F]{8}$`, order.OrderNo)
	assert.Equal(t, enum.OrderStatusReceived, order.Status)
	assert.Equal(t, int64(125000), order.SubTotal)
	assert.Equal(t, int64(22500), order.Tax)
	assert.Equal(t, int64(147500), order.Total)
	assert.Equal(t, int64(147500), order.Paid)
	assert.Zero(t, order.Due)
	assert.Equal(t, 4, order.TotalItems)
	assert.Len(t, order.Items, 2)
	require.NotNil(t, order.ShiftID)
	assert.Equal(t, shift.ID, *order.ShiftID)

	cart, err := c.cart.GetCart(ctx, c.cashier)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.CustomerID)

	current, err := c.shifts.GetCurrentShift(ctx, c.cashier)
	require.NoError(t, err)
	assert.Equal(t, int64(147500), current.CashTakings)
	assert.Equal(t, int64(157500), current.ExpectedCash)
	assert.Equal(t, 1, current.OrdersCount)
}

func TestCreateOrder_AdvancePayment(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	c.fillCart(t, 0)

	order, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID: c.cashier,
		BillingAdjustments: BillingAdjustments{
			PaymentMethod: billing.PaymentAdvance,
			AdvanceAmount: 500,
		},
		CollectionDate: collectIn(3),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50000), order.Advance)
	assert.Equal(t, int64(50000), order.Paid)
	assert.Equal(t, int64(97500), order.Balance)
	assert.Equal(t, int64(97500), order.Due)
}

func TestCreateOrder_SubCentAdvanceKeepsBalanceAndDueEqual(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	c.fillCart(t, 0)

	order, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID: c.cashier,
		BillingAdjustments: BillingAdjustments{
			PaymentMethod: billing.PaymentAdvance,
			AdvanceAmount: 100.005,
			DeliveryFee:   10.004,
			TipAmount:     0.005,
		},
		CollectionDate: collectIn(3),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10001), order.Advance)
	assert.Equal(t, order.Advance, order.Paid)
	assert.Equal(t, order.Total-order.Advance, order.Balance)
	assert.Equal(t, order.Balance, order.Due)
	assert.Equal(t, int64(1000), order.DeliveryFee)
	assert.Equal(t, int64(1), order.Tip)
}

func TestCreateOrder_AdvanceValidation(t *testing.T) {
	tests := []struct {
		name    string
		advance float64
	}{
		{name: "missing", advance: 0},
		{name: "above total", advance: 1475.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCounter(t, OrderSettings{})
			c.fillCart(t, 0)

			_, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
				UserID: c.cashier,
				BillingAdjustments: BillingAdjustments{
					PaymentMethod: billing.PaymentAdvance,
					AdvanceAmount: tt.advance,
				},
				CollectionDate: collectIn(3),
			})

			assert.Equal(t, []string{"advance_amount"}, fieldNames(t, err))
		})
	}
}

func TestCreateOrder_AdvanceEqualToTotalIsAccepted(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	c.fillCart(t, 0)

	order, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID: c.cashier,
		BillingAdjustments: BillingAdjustments{
			PaymentMethod: billing.PaymentAdvance,
			AdvanceAmount: 1475,
		},
		CollectionDate: collectIn(3),
	})
	require.NoError(t, err)
	assert.Zero(t, order.Due)
	assert.Zero(t, order.Balance)
}

func TestCreateOrder_PayOnCollectionLeavesEverythingDue(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	c.fillCart(t, 0)

	order, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID:             c.cashier,
		BillingAdjustments: BillingAdjustments{PaymentMethod: billing.PaymentCollection},
		CollectionDate:     collectIn(1),
	})
	require.NoError(t, err)

	assert.Zero(t, order.Paid)
	assert.Equal(t, order.Total, order.Due)
	assert.Nil(t, order.ShiftID)
}

func TestCreateOrder_CreditsAreCappedAndDebited(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	customer := c.fillCart(t, 10000)

	order, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID: c.cashier,
		BillingAdjustments: BillingAdjustments{
			PaymentMethod:    billing.PaymentCash,
			CreditsRequested: 300,
		},
		CollectionDate: collectIn(2),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), order.CreditsApplied)
	assert.Equal(t, int64(137500), order.Total)
	assert.Zero(t, c.customers.balance(customer.ID))
}

func TestCreateOrder_RestoresCreditsWhenSaveFails(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	customer := c.fillCart(t, 10000)
	c.orders.createErr = errors.New("db down")

	_, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID: c.cashier,
		BillingAdjustments: BillingAdjustments{
			PaymentMethod:    billing.PaymentCash,
			CreditsRequested: 50,
		},
		CollectionDate: collectIn(2),
	})
	require.Error(t, err)

	assert.Equal(t, int64(10000), c.customers.balance(customer.ID))
	cart, _ := c.cart.GetCart(context.Background(), c.cashier)
	assert.Len(t, cart.Items, 2)
}

func TestCreateOrder_RequiresShiftWhenConfigured(t *testing.T) {
	c := newCounter(t, OrderSettings{ShiftRequired: true})
	c.fillCart(t, 0)

	_, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID:         c.cashier,
		CollectionDate: collectIn(2),
	})

	assert.ErrorIs(t, err, apperror.ErrNoOpenShift)
}

func checkout(t *testing.T, c *counter, method billing.PaymentMethod, credits float64) *entity.Order {
	t.Helper()
	c.fillCart(t, 20000)
	order, err := c.order.CreateOrder(context.Background(), &CheckoutInput{
		UserID: c.cashier,
		BillingAdjustments: BillingAdjustments{
			PaymentMethod:    method,
			CreditsRequested: credits,
		},
		CollectionDate: collectIn(2),
	})
	require.NoError(t, err)
	return order
}

func TestAdvanceStatus_WalksTheLinearFlow(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	order := checkout(t, c, billing.PaymentCard, 0)

	order, err := c.order.AdvanceStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusInWorkshop, order.Status)

	queue, err := c.order.ListWorkshopQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, order.ID, queue[0].ID)

	order, err = c.order.AdvanceStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusReady, order.Status)
	assert.NotNil(t, order.ReadyAt)
	assert.Equal(t, []string{order.OrderNo}, c.notifier.ready)

	ready, err := c.order.ListReadyForPickup(ctx)
	require.NoError(t, err)
	assert.Len(t, ready, 1)

	order, err = c.order.AdvanceStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusDelivered, order.Status)
	assert.NotNil(t, order.PickedUpAt)

	_, err = c.order.AdvanceStatus(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestAdvanceStatus_NotificationFailureDoesNotBlock(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	c.notifier.err = errors.New("smtp timeout")
	order := checkout(t, c, billing.PaymentCash, 0)

	_, err := c.order.UpdateStatus(ctx, order.ID, enum.OrderStatusInWorkshop)
	require.NoError(t, err)
	order, err = c.order.UpdateStatus(ctx, order.ID, enum.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusReady, order.Status)
}

func TestDeliveryRequiresSettledBalance(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	order := checkout(t, c, billing.PaymentCollection, 0)

	for i := 0; i < 2; i++ {
		_, err := c.order.AdvanceStatus(ctx, order.ID)
		require.NoError(t, err)
	}

	_, err := c.order.AdvanceStatus(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = c.order.PayDue(ctx, c.cashier, order.ID, 2000, billing.PaymentCash)
	require.NoError(t, err)

	order, err = c.order.AdvanceStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusDelivered, order.Status)
}

func TestUpdateStatus_RejectsSkippingSteps(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	order := checkout(t, c, billing.PaymentCash, 0)

	_, err := c.order.UpdateStatus(context.Background(), order.ID, enum.OrderStatusReady)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestCancelOrder_RefundsCredits(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	order := checkout(t, c, billing.PaymentCash, 150)
	require.Equal(t, int64(15000), order.CreditsApplied)
	assert.Equal(t, int64(5000), c.customers.balance(order.CustomerID))

	cancelled, err := c.order.UpdateStatus(ctx, order.ID, enum.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(20000), c.customers.balance(order.CustomerID))

	_, err = c.order.CancelOrder(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, int64(20000), c.customers.balance(order.CustomerID))
}

func TestCancelOrder_DeliveredCannotBeCancelled(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	order := checkout(t, c, billing.PaymentCash, 0)
	for i := 0; i < 3; i++ {
		_, err := c.order.AdvanceStatus(ctx, order.ID)
		require.NoError(t, err)
	}

	_, err := c.order.CancelOrder(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestPayDue_FloorsAtZeroAndBooksSettledAmount(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	_, err := c.shifts.OpenShift(ctx, c.cashier, 0, nil)
	require.NoError(t, err)
	order := checkout(t, c, billing.PaymentCollection, 0)

	due, err := c.order.GetDueOrders(ctx, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Len(t, due.Items, 1)

	order, err = c.order.PayDue(ctx, c.cashier, order.ID, 475, billing.PaymentCard)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), order.Due)
	assert.Equal(t, int64(47500), order.Paid)

	order, err = c.order.PayDue(ctx, c.cashier, order.ID, 1200, billing.PaymentCash)
	require.NoError(t, err)
	assert.Zero(t, order.Due)
	assert.Equal(t, order.Total, order.Paid)

	shift, err := c.shifts.GetCurrentShift(ctx, c.cashier)
	require.NoError(t, err)
	assert.Equal(t, int64(47500), shift.CardTakings)
	assert.Equal(t, int64(100000), shift.CashTakings)
	assert.Equal(t, 1, shift.OrdersCount)

	_, err = c.order.PayDue(ctx, c.cashier, order.ID, 10, billing.PaymentCash)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestPayDue_Validation(t *testing.T) {
	c := newCounter(t, OrderSettings{})

	_, err := c.order.PayDue(context.Background(), c.cashier, uuid.New(), 0, billing.PaymentAccount)

	assert.ElementsMatch(t, []string{"amount", "payment_method"}, fieldNames(t, err))
}

func TestGetOrder_NotFound(t *testing.T) {
	c := newCounter(t, OrderSettings{})

	_, err := c.order.GetOrder(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestGetOrderByNumber(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	order := checkout(t, c, billing.PaymentCash, 0)

	found, err := c.order.GetOrderByNumber(ctx, "  "+order.OrderNo+" ")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.NotEmpty(t, found.Items)

	for _, number := range []string{"", "NOPE-0001"} {
		_, err = c.order.GetOrderByNumber(ctx, number)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	}
}

func TestClosedOrdersCannotMove(t *testing.T) {
	c := newCounter(t, OrderSettings{})
	ctx := context.Background()
	order := checkout(t, c, billing.PaymentCash, 0)

	_, err := c.order.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	stored, err := c.order.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOpen())

	_, err = c.order.AdvanceStatus(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = c.order.moveTo(ctx, stored, enum.OrderStatusReady)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	stored, err = c.order.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, stored.Status)
	assert.Nil(t, stored.ReadyAt)
}
