package checkbox

import "time"

// Session is the cashier token for one invocation. It is never persisted or
// shared across requests; the fiscal server expires it on its own schedule.
type Session struct {
	Token    string
	IssuedAt time.Time
}

// Shift statuses reported by GET /cashier/shift.
const (
	ShiftStatusOpened = "OPENED"
	ShiftStatusClosed = "CLOSED"
)

type Shift struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ReceiptKind selects the submission endpoint.
type ReceiptKind string

const (
	ReceiptKindSell   ReceiptKind = "SELL"
	ReceiptKindReturn ReceiptKind = "RETURN"
)

type Good struct {
	Code string `json:"code"`
	Name string `json:"name"`
	// Price is in minor currency units (kopecks).
	Price int64 `json:"price"`
}

type ReceiptGood struct {
	Good Good `json:"good"`
	// Quantity is fixed-point with three decimal digits (1000 = one unit).
	Quantity int64 `json:"quantity"`
}

type Payment struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
	Label string `json:"label,omitempty"`
}

type Delivery struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ReceiptPayload struct {
	Goods    []ReceiptGood `json:"goods"`
	Payments []Payment     `json:"payments"`
	Delivery *Delivery     `json:"delivery,omitempty"`
}

type Receipt struct {
	ID string `json:"id"`
}

type signInRequest struct {
	PinCode string `json:"pin_code"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
