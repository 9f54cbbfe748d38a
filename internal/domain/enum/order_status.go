package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderStatus tracks a laundry order from the counter, through the workshop,
// to pickup. The flow is linear; Cancelled is reachable from any status before
// Delivered.
type OrderStatus int

const (
	OrderStatusReceived   OrderStatus = 0
	OrderStatusInWorkshop OrderStatus = 1
	OrderStatusReady      OrderStatus = 2
	OrderStatusDelivered  OrderStatus = 3
	OrderStatusCancelled  OrderStatus = 4
)

var orderStatusNames = [...]string{"received", "in_workshop", "ready", "delivered", "cancelled"}

func (s OrderStatus) String() string {
	if s < 0 || int(s) >= len(orderStatusNames) {
		return "unknown"
	}
	return orderStatusNames[s]
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusReceived && s <= OrderStatusCancelled
}

// Next returns the status that follows s in the linear flow. ok is false for
// Delivered and Cancelled.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	switch s {
	case OrderStatusReceived:
		return OrderStatusInWorkshop, true
	case OrderStatusInWorkshop:
		return OrderStatusReady, true
	case OrderStatusReady:
		return OrderStatusDelivered, true
	}
	return s, false
}

// CanTransitionTo reports whether an order in status s may move to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return s != OrderStatusDelivered && s != OrderStatusCancelled
	}
	next, ok := s.Next()
	return ok && next == target
}

// ParseOrderStatus accepts the status name
func ParseOrderStatus(str string) (OrderStatus, error) {
	for i, name := range orderStatusNames {
		if name == str {
			return OrderStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", str)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	parsed, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusReceived
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
