package sale

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart           = errors.New("carrinho vazio")
	ErrPriceChanged        = errors.New("preço de item alterado desde a inclusão no carrinho")
	ErrInsufficientPayment = errors.New("valor pago insuficiente")
	ErrInvalidPayment      = errors.New("forma de pagamento inválida")
)

// Status representa o estado de uma venda. Vendas são imutáveis após a
// criação, exceto pela transição para refunded conduzida pelo fluxo de
// devolução.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
)

// PaymentMethod define a forma de pagamento
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPix        PaymentMethod = "pix"
)

// Sale representa uma venda concluída
type Sale struct {
	ID             string        `json:"id"`
	CashierID      string        `json:"cashier_id"`
	ClientID       string        `json:"client_id,omitempty"`
	BranchID       string        `json:"branch_id,omitempty"`
	Subtotal       float64       `json:"subtotal"`
	DiscountAmount float64       `json:"discount_amount"`
	TaxAmount      float64       `json:"tax_amount"`
	Total          float64       `json:"total"`
	TenderedAmount float64       `json:"tendered_amount"`
	ChangeAmount   float64       `json:"change_amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	CouponCode     string        `json:"coupon_code,omitempty"`
	Status         Status        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Line representa um item de uma venda: o registro autoritativo contra o
// qual a elegibilidade de devolução é calculada. Imutável após a criação.
type Line struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"sale_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"` // Preço praticado na venda
	Subtotal    float64 `json:"subtotal"`
}

// ValidPaymentMethod verifica se a forma de pagamento é conhecida
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// NewSale cria uma venda com os totais já calculados. Vale a identidade
// total = subtotal - desconto + imposto e change = tendered - total.
func NewSale(cashierID, clientID, branchID string, subtotal, discount, tax, tendered float64, method PaymentMethod, couponCode string) (*Sale, error) {
	if !ValidPaymentMethod(method) {
		return nil, ErrInvalidPayment
	}

	total := Round(subtotal - discount + tax)
	if tendered < total {
		return nil, ErrInsufficientPayment
	}

	return &Sale{
		ID:             uuid.New().String(),
		CashierID:      cashierID,
		ClientID:       clientID,
		BranchID:       branchID,
		Subtotal:       Round(subtotal),
		DiscountAmount: Round(discount),
		TaxAmount:      Round(tax),
		Total:          total,
		TenderedAmount: Round(tendered),
		ChangeAmount:   Round(tendered - total),
		PaymentMethod:  method,
		CouponCode:     couponCode,
		Status:         StatusCompleted,
		CreatedAt:      time.Now(),
	}, nil
}

// NewLine cria um item de venda
func NewLine(saleID, productID, productName string, qty int, unitPrice float64) *Line {
	return &Line{
		ID:          uuid.New().String(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Subtotal:    Round(float64(qty) * unitPrice),
	}
}

// LoyaltyPoints calcula os pontos de fidelidade acumulados por uma
// venda: 1 ponto a cada 10 unidades monetárias do total.
func LoyaltyPoints(total float64) int {
	return int(math.Floor(total / 10))
}

// Round arredonda valores monetários a 2 casas decimais
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
