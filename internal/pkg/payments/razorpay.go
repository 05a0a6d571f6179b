package payments

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// razorpayGateway is the production Gateway backed by razorpay-go.
type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates a gateway client from API credentials.
func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateRemoteOrder opens an order on the gateway and returns its id.
func (g *razorpayGateway) CreateRemoteOrder(input RemoteOrderInput) (string, error) {
	data := map[string]interface{}{
		"amount":   input.AmountPaise,
		"currency": input.Currency,
		"receipt":  input.Receipt,
		"notes":    input.Notes,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order create: response missing order id")
	}
	return id, nil
}
