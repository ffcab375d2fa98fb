package email

import (
	"context"
	"fmt"
	"strings"
)

// CompositeTransport delegates sending to multiple transports. Used to pair a
// real transport with a FileTransport when LOG_EMAILS is enabled.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport returns the concrete type so AddTransport can be
// called directly during wiring.
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{transports: transports}
}

// AddTransport appends a transport to the delegation list.
func (c *CompositeTransport) AddTransport(t Transport) {
	if t != nil {
		c.transports = append(c.transports, t)
	}
}

// Send calls every registered transport and aggregates their errors.
func (c *CompositeTransport) Send(ctx context.Context, msg *Message) error {
	if len(c.transports) == 0 {
		return fmt.Errorf("no transports configured in CompositeTransport")
	}

	var allErrors []string
	for _, t := range c.transports {
		if err := t.Send(ctx, msg); err != nil {
			allErrors = append(allErrors, err.Error())
		}
	}

	if len(allErrors) > 0 {
		return fmt.Errorf("composite email send failed: [ %s ]", strings.Join(allErrors, "; "))
	}
	return nil
}
