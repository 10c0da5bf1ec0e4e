package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ss-infotech2024/AllCares/internal/domain"
	pkgkafka "github.com/ss-infotech2024/AllCares/pkg/kafka"
)

// Kafka topics for cart domain events.
const (
	TopicCartUpdated = "allcares.cart.updated"
	TopicCartCleared = "allcares.cart.cleared"
)

const (
	aggregateTypeCart = "cart"
	sourceStorefront  = "storefront"
)

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     float64        `json:"total"`
}

// CartItemData is the line-item payload within cart events.
type CartItemData struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Producer publishes cart domain events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a cart event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event for the session.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, state domain.CartState) error {
	items := make([]CartItemData, len(state.Items))
	for i, item := range state.Items {
		items[i] = CartItemData{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: sessionID,
		Items:     items,
		ItemCount: state.ItemCount,
		Total:     state.Total,
	}

	evt, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, aggregateTypeCart, sourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, evt); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", state.ItemCount),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event for the session.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	evt, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, aggregateTypeCart, sourceStorefront, CartClearedData{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, evt); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}
